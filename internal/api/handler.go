package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
	"pharmacie/m/internal/metrics"
	"pharmacie/m/internal/notify"
	"pharmacie/m/internal/seed"
	"pharmacie/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store       *store.Store
	secret      string
	publisher   notify.Publisher
	metrics     *metrics.Metrics
	corsOrigins []string
	regions     []domain.Region
	now         func() time.Time
}

// New constructs a Handler.
func New(s *store.Store, secret string, publisher notify.Publisher, m *metrics.Metrics, corsOrigins []string) *Handler {
	if publisher == nil {
		publisher = notify.Noop{}
	}
	if m == nil {
		m = metrics.New()
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Handler{
		store:       s,
		secret:      secret,
		publisher:   publisher,
		metrics:     m,
		corsOrigins: corsOrigins,
		regions:     seed.Regions(),
		now:         time.Now,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)

	r.Get("/health", h.health)
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})

	r.Get("/regions", h.listRegions)
	r.Get("/delivery/quote", h.deliveryQuote)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Put("/items/{productID}", h.updateCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
	})

	r.Post("/checkout", h.checkout)
	r.Post("/prescriptions", h.createPrescription)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.adminLogin)

		r.Group(func(ar chi.Router) {
			ar.Use(h.authMiddleware)

			ar.Post("/logout", h.adminLogout)
			ar.Get("/stats", h.stats)

			ar.Route("/products", func(r chi.Router) {
				r.Get("/", h.adminListProducts)
				r.Post("/", h.createProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deleteProduct)
			})

			ar.Route("/orders", func(r chi.Router) {
				r.Get("/", h.listOrders)
				r.Get("/export", h.exportOrders)
				r.Put("/{id}/status", h.updateOrderStatus)
				r.Delete("/{id}", h.deleteOrder)
			})

			ar.Route("/delivery-prices", func(r chi.Router) {
				r.Get("/", h.listDeliveryPrices)
				r.Put("/", h.saveDeliveryPrices)
				r.Put("/{region}", h.updateDeliveryPrice)
			})

			ar.Route("/prescriptions", func(r chi.Router) {
				r.Get("/", h.listPrescriptions)
				r.Get("/{id}/file", h.downloadPrescription)
				r.Delete("/{id}", h.deletePrescription)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record counts a store mutation and reports whether it succeeded. On
// failure it has already written a 500.
func (h *Handler) record(w http.ResponseWriter, op string, err error) bool {
	h.metrics.RecordOperation(op, err == nil)
	if err != nil {
		log.Error().Err(err).Str("operation", op).Msg("store operation failed")
		respondError(w, http.StatusInternalServerError, "unable to save changes")
		return false
	}
	return true
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
