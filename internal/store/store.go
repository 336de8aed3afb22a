// Package store is the single source of truth for the storefront state.
//
// A Store owns five collections (products, cart, orders, delivery prices,
// prescriptions) plus the admin session flag and the id of the current admin
// session. It is loaded from a
// storage.Storage when constructed and writes the whole touched collection
// back to that storage on every mutation. Lookups that match nothing are
// silent no-ops; id-keyed mutations report whether anything matched.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
	"pharmacie/m/internal/seed"
	"pharmacie/m/internal/storage"
)

// Collection names one independently persisted storage entry.
type Collection string

const (
	CollectionProducts       Collection = "products"
	CollectionCart           Collection = "cart"
	CollectionOrders         Collection = "orders"
	CollectionDeliveryPrices Collection = "delivery_prices"
	CollectionPrescriptions  Collection = "prescriptions"
	CollectionAdminAuth      Collection = "admin_auth"
	CollectionAdminSession   Collection = "admin_session"
)

// Collections lists every persisted collection in load order.
var Collections = []Collection{
	CollectionProducts,
	CollectionCart,
	CollectionOrders,
	CollectionDeliveryPrices,
	CollectionPrescriptions,
	CollectionAdminAuth,
	CollectionAdminSession,
}

// ErrUnknownCollection is returned by Reset for a name outside Collections.
var ErrUnknownCollection = errors.New("unknown collection")

// DefaultPrefix is prepended to every storage key.
const DefaultPrefix = "pharmacie_talah_"

// Store holds the storefront state and mirrors every change to kv.
type Store struct {
	mu           sync.Mutex
	kv           storage.Storage
	prefix       string
	now          func() time.Time
	newID        func() string
	newSessionID func() string
	writeBack    bool

	defaultProducts       func(createdAt time.Time) []domain.Product
	defaultDeliveryPrices func() []domain.DeliveryPrice

	products           []domain.Product
	cart               []domain.CartItem
	orders             []domain.Order
	deliveryPrices     []domain.DeliveryPrice
	prescriptions      []domain.Prescription
	adminAuthenticated bool
	adminSession       string
}

// Option configures a Store in New.
type Option func(*Store)

// WithPrefix sets the prefix prepended to every storage key.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock replaces the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the generator of record ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithoutWriteBack skips writing the loaded state back in New. Read-only
// callers use it so that opening a store leaves storage untouched.
func WithoutWriteBack() Option {
	return func(s *Store) { s.writeBack = false }
}

// WithDefaultProducts replaces the built-in starter catalog.
func WithDefaultProducts(products []domain.Product) Option {
	return func(s *Store) {
		s.defaultProducts = func(time.Time) []domain.Product {
			return append([]domain.Product{}, products...)
		}
	}
}

// WithDefaultDeliveryPrices replaces the seeded per-region fee table.
func WithDefaultDeliveryPrices(prices []domain.DeliveryPrice) Option {
	return func(s *Store) {
		s.defaultDeliveryPrices = func() []domain.DeliveryPrice {
			return append([]domain.DeliveryPrice{}, prices...)
		}
	}
}

// New loads every collection from kv, falling back to defaults for missing
// or unreadable entries, and writes the resulting state back unless
// WithoutWriteBack is given.
func New(ctx context.Context, kv storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		kv:              kv,
		prefix:          DefaultPrefix,
		now:             func() time.Time { return time.Now().UTC() },
		newID:           uuid.NewString,
		newSessionID:    uuid.NewString,
		writeBack:       true,
		defaultProducts: seed.Products,
		defaultDeliveryPrices: func() []domain.DeliveryPrice {
			return seed.DeliveryPrices(seed.Regions())
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.products, err = load(ctx, s, CollectionProducts, func() []domain.Product { return s.defaultProducts(s.now()) }); err != nil {
		return nil, err
	}
	if s.cart, err = load(ctx, s, CollectionCart, emptySlice[domain.CartItem]); err != nil {
		return nil, err
	}
	if s.orders, err = load(ctx, s, CollectionOrders, emptySlice[domain.Order]); err != nil {
		return nil, err
	}
	if s.deliveryPrices, err = load(ctx, s, CollectionDeliveryPrices, s.defaultDeliveryPrices); err != nil {
		return nil, err
	}
	if s.prescriptions, err = load(ctx, s, CollectionPrescriptions, emptySlice[domain.Prescription]); err != nil {
		return nil, err
	}
	if s.adminAuthenticated, err = load(ctx, s, CollectionAdminAuth, func() bool { return false }); err != nil {
		return nil, err
	}

	if s.adminSession, err = load(ctx, s, CollectionAdminSession, func() string { return "" }); err != nil {
		return nil, err
	}

	if s.writeBack {
		if err := s.persistAll(ctx); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("products", len(s.products)).
		Int("cart_items", len(s.cart)).
		Int("orders", len(s.orders)).
		Int("regions", len(s.deliveryPrices)).
		Int("prescriptions", len(s.prescriptions)).
		Msg("store loaded")
	return s, nil
}

// Key returns the storage key of collection c.
func (s *Store) Key(c Collection) string {
	return s.prefix + string(c)
}

// Reset reinitializes collection c to its defaults. An empty collection or
// "all" resets everything.
func (s *Store) Reset(ctx context.Context, c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets := []Collection{c}
	if c == "" || c == "all" {
		targets = Collections
	}

	for _, target := range targets {
		var err error
		switch target {
		case CollectionProducts:
			next := s.defaultProducts(s.now())
			if err = s.persist(ctx, target, next); err == nil {
				s.products = next
			}
		case CollectionCart:
			next := []domain.CartItem{}
			if err = s.persist(ctx, target, next); err == nil {
				s.cart = next
			}
		case CollectionOrders:
			next := []domain.Order{}
			if err = s.persist(ctx, target, next); err == nil {
				s.orders = next
			}
		case CollectionDeliveryPrices:
			next := s.defaultDeliveryPrices()
			if err = s.persist(ctx, target, next); err == nil {
				s.deliveryPrices = next
			}
		case CollectionPrescriptions:
			next := []domain.Prescription{}
			if err = s.persist(ctx, target, next); err == nil {
				s.prescriptions = next
			}
		case CollectionAdminAuth:
			if err = s.persist(ctx, target, false); err == nil {
				s.adminAuthenticated = false
			}
		case CollectionAdminSession:
			if err = s.persist(ctx, target, ""); err == nil {
				s.adminSession = ""
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCollection, target)
		}
		if err != nil {
			return err
		}
		log.Info().Str("collection", string(target)).Msg("store: collection reset to defaults")
	}
	return nil
}

func load[T any](ctx context.Context, s *Store, c Collection, fallback func() T) (T, error) {
	key := s.Key(c)
	payload, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("store: load %s: %w", c, err)
	}
	if !ok {
		return fallback(), nil
	}

	var value T
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: unreadable entry, using defaults")
		return fallback(), nil
	}
	return normalize(value), nil
}

// normalize turns a decoded JSON null into an empty slice so the entry is
// written back as [] rather than null.
func normalize[T any](value T) T {
	switch v := any(value).(type) {
	case []domain.Product:
		if v == nil {
			return any([]domain.Product{}).(T)
		}
	case []domain.CartItem:
		if v == nil {
			return any([]domain.CartItem{}).(T)
		}
	case []domain.Order:
		if v == nil {
			return any([]domain.Order{}).(T)
		}
	case []domain.DeliveryPrice:
		if v == nil {
			return any([]domain.DeliveryPrice{}).(T)
		}
	case []domain.Prescription:
		if v == nil {
			return any([]domain.Prescription{}).(T)
		}
	}
	return value
}

func emptySlice[T any]() []T {
	return []T{}
}

func (s *Store) persist(ctx context.Context, c Collection, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c, err)
	}
	if err := s.kv.Set(ctx, s.Key(c), string(payload)); err != nil {
		return fmt.Errorf("store: persist %s: %w", c, err)
	}
	return nil
}

func (s *Store) persistAll(ctx context.Context) error {
	entries := []struct {
		collection Collection
		value      any
	}{
		{CollectionProducts, s.products},
		{CollectionCart, s.cart},
		{CollectionOrders, s.orders},
		{CollectionDeliveryPrices, s.deliveryPrices},
		{CollectionPrescriptions, s.prescriptions},
		{CollectionAdminAuth, s.adminAuthenticated},
		{CollectionAdminSession, s.adminSession},
	}
	for _, e := range entries {
		if err := s.persist(ctx, e.collection, e.value); err != nil {
			return err
		}
	}
	return nil
}
