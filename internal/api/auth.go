package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// generateToken issues an admin token bound to session. The token is only
// honoured while session is the store's current admin session.
func (h *Handler) generateToken(session string, now time.Time) (string, error) {
	claims := authClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session,
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

// authMiddleware admits requests carrying a valid admin token issued for the
// store's current admin session.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok || claims.Role != adminRole || claims.ID == "" {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		if claims.ID != h.store.AdminSession() {
			respondError(w, http.StatusUnauthorized, "admin session is closed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.store.AdminLogin(r.Context(), strings.TrimSpace(req.Phone), req.Password)
	if !h.record(w, "admin_login", err) {
		return
	}
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session := h.store.AdminSession()
	if session == "" {
		respondError(w, http.StatusUnauthorized, "admin session is closed")
		return
	}
	token, err := h.generateToken(session, h.now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) adminLogout(w http.ResponseWriter, r *http.Request) {
	err := h.store.AdminLogout(r.Context())
	if !h.record(w, "admin_logout", err) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
