package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Built-in back-office credential. It is a placeholder gate, not a real
// account system: there is one pair and no per-user session.
const (
	AdminPhone    = "0797939772"
	adminPassword = "000000"
)

var adminPasswordHash = sync.OnceValues(func() ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
})

// IsAdminAuthenticated reports whether the back-office session is open.
func (s *Store) IsAdminAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminAuthenticated
}

// AdminSession returns the id of the current admin session, or "" when no
// session is open. Every successful login rotates it; logout clears it.
func (s *Store) AdminSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.adminAuthenticated {
		return ""
	}
	return s.adminSession
}

// AdminLogin sets the session flag and starts a new session id when phone
// and password match the built-in credential exactly. On mismatch the flag
// and session are left as they were.
func (s *Store) AdminLogin(ctx context.Context, phone, password string) (bool, error) {
	hash, err := adminPasswordHash()
	if err != nil {
		return false, err
	}
	if phone != AdminPhone || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		log.Warn().Str("phone", phone).Msg("store: admin login rejected")
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.newSessionID()
	if err := s.persist(ctx, CollectionAdminSession, session); err != nil {
		return false, err
	}
	if err := s.persist(ctx, CollectionAdminAuth, true); err != nil {
		return false, err
	}
	s.adminSession = session
	s.adminAuthenticated = true
	log.Info().Msg("store: admin logged in")
	return true, nil
}

// AdminLogout closes the session and forgets its id.
func (s *Store) AdminLogout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, CollectionAdminAuth, false); err != nil {
		return err
	}
	s.adminAuthenticated = false
	if err := s.persist(ctx, CollectionAdminSession, ""); err != nil {
		return err
	}
	s.adminSession = ""
	return nil
}
