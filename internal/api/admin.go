package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
	"pharmacie/m/internal/export"
)

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats())
}

// Orders

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	if status == "" {
		respondJSON(w, http.StatusOK, h.store.Orders())
		return
	}
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}
	respondJSON(w, http.StatusOK, h.store.OrdersByStatus(status))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := domain.OrderStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	id := chi.URLParam(r, "id")
	found, err := h.store.UpdateOrderStatus(r.Context(), id, status)
	if !h.record(w, "update_order_status", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	order, _ := h.store.Order(id)
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.DeleteOrder(r.Context(), chi.URLParam(r, "id"))
	if !h.record(w, "delete_order", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	file, err := export.OrdersWorkbook(h.store.Orders())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create workbook")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=orders.xlsx")
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Transfer-Encoding", "binary")
	w.Header().Set("Expires", "0")
	if err := file.Write(w); err != nil {
		log.Error().Err(err).Msg("failed to write orders workbook")
	}
}

// Delivery prices

type deliveryPriceRequest struct {
	Region string   `json:"region"`
	Home   *float64 `json:"home"`
	Office *float64 `json:"office"`
}

func (req deliveryPriceRequest) valid() bool {
	return req.Home != nil && req.Office != nil && *req.Home >= 0 && *req.Office >= 0
}

func (h *Handler) listDeliveryPrices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.SearchDeliveryPrices(r.URL.Query().Get("q")))
}

func (h *Handler) updateDeliveryPrice(w http.ResponseWriter, r *http.Request) {
	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid region")
		return
	}
	var req deliveryPriceRequest
	if err := decodeJSON(r, &req); err != nil || !req.valid() {
		respondError(w, http.StatusBadRequest, "home and office must be non-negative numbers")
		return
	}

	found, err := h.store.UpdateDeliveryPrice(r.Context(), region, *req.Home, *req.Office)
	if !h.record(w, "update_delivery_price", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "region not found")
		return
	}
	respondJSON(w, http.StatusOK, domain.DeliveryPrice{Region: region, Home: *req.Home, Office: *req.Office})
}

// saveDeliveryPrices applies a batch of edits in one write. Nothing is saved
// when any row is invalid or names an unknown region.
func (h *Handler) saveDeliveryPrices(w http.ResponseWriter, r *http.Request) {
	var req []deliveryPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows := make([]domain.DeliveryPrice, 0, len(req))
	for _, row := range req {
		if !row.valid() {
			respondError(w, http.StatusBadRequest, "home and office must be non-negative numbers")
			return
		}
		rows = append(rows, domain.DeliveryPrice{Region: row.Region, Home: *row.Home, Office: *row.Office})
	}

	missing, err := h.store.UpdateDeliveryPrices(r.Context(), rows)
	if !h.record(w, "update_delivery_prices", err) {
		return
	}
	if len(missing) > 0 {
		respondError(w, http.StatusNotFound, "region not found: "+strings.Join(missing, ", "))
		return
	}
	respondJSON(w, http.StatusOK, h.store.DeliveryPrices())
}
