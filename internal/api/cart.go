package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacie/m/domain"
)

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

func (h *Handler) cartView() cartView {
	return cartView{Items: h.store.Cart(), Total: h.store.CartTotal()}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product, ok := h.store.Product(strings.TrimSpace(req.ProductID))
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	err := h.store.AddToCart(r.Context(), product)
	if !h.record(w, "add_to_cart", err) {
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	found, err := h.store.UpdateCartQuantity(r.Context(), chi.URLParam(r, "productID"), *req.Quantity)
	if !h.record(w, "update_cart_quantity", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.RemoveFromCart(r.Context(), chi.URLParam(r, "productID"))
	if !h.record(w, "remove_from_cart", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	err := h.store.ClearCart(r.Context())
	if !h.record(w, "clear_cart", err) {
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}
