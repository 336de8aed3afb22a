package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
	"pharmacie/m/internal/store"
)

type regionView struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Home   float64 `json:"home"`
	Office float64 `json:"office"`
}

func (h *Handler) listRegions(w http.ResponseWriter, r *http.Request) {
	views := make([]regionView, 0, len(h.regions))
	for _, region := range h.regions {
		views = append(views, regionView{
			Code:   region.Code,
			Name:   region.Name,
			Home:   h.store.DeliveryPrice(region.Name, domain.DeliveryHome),
			Office: h.store.DeliveryPrice(region.Name, domain.DeliveryOffice),
		})
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) deliveryQuote(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	method := domain.DeliveryMethod(strings.TrimSpace(r.URL.Query().Get("method")))
	if region == "" {
		respondError(w, http.StatusBadRequest, "region is required")
		return
	}
	if !method.Valid() {
		respondError(w, http.StatusBadRequest, "method must be home or office")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"region": region,
		"method": method,
		"fee":    h.store.DeliveryPrice(region, method),
	})
}

func (h *Handler) knownRegion(name string) bool {
	for _, region := range h.regions {
		if region.Name == name {
			return true
		}
	}
	return false
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName       string `json:"full_name"`
		Phone          string `json:"phone"`
		Region         string `json:"region"`
		SubRegion      string `json:"sub_region"`
		DeliveryMethod string `json:"delivery_method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := domain.OrderInput{
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          strings.TrimSpace(req.Phone),
		Region:         strings.TrimSpace(req.Region),
		SubRegion:      strings.TrimSpace(req.SubRegion),
		DeliveryMethod: domain.DeliveryMethod(strings.TrimSpace(req.DeliveryMethod)),
	}
	if in.FullName == "" || in.Phone == "" || in.Region == "" || in.SubRegion == "" {
		respondError(w, http.StatusBadRequest, "full_name, phone, region and sub_region are required")
		return
	}
	if !in.DeliveryMethod.Valid() {
		respondError(w, http.StatusBadRequest, "delivery_method must be home or office")
		return
	}
	if !h.knownRegion(in.Region) {
		respondError(w, http.StatusBadRequest, "unknown region")
		return
	}

	order, err := h.store.Checkout(r.Context(), in)
	if errors.Is(err, store.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if err != nil && order.ID == "" {
		h.record(w, "add_order", err)
		return
	}
	h.metrics.RecordOperation("add_order", true)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order placed but cart not cleared")
	}

	if err := h.publisher.OrderPlaced(r.Context(), order); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order notification failed")
	}
	respondJSON(w, http.StatusCreated, order)
}
