package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacie/m/domain"
	"pharmacie/m/internal/upload"
)

const maxMultipartMemory = 32 << 20

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	if category != "" && !category.Valid() {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}
	respondJSON(w, http.StatusOK, h.store.FilterProducts(category, r.URL.Query().Get("q")))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.store.Product(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.SearchProductsByName(r.URL.Query().Get("q")))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := domain.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       parsePrice(r.FormValue("price")),
		Category:    domain.Category(strings.TrimSpace(r.FormValue("category"))),
	}
	if in.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !in.Category.Valid() {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}

	image, present, err := productImage(r)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	if !present {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	in.Image = image

	product, err := h.store.AddProduct(r.Context(), in)
	if !h.record(w, "add_product", err) {
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var patch domain.ProductPatch
	if name, ok := formField(r, "name"); ok {
		if name == "" {
			respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		patch.Name = &name
	}
	if description, ok := formField(r, "description"); ok {
		patch.Description = &description
	}
	if raw, ok := formField(r, "price"); ok {
		price := parsePrice(raw)
		patch.Price = &price
	}
	if raw, ok := formField(r, "category"); ok {
		category := domain.Category(raw)
		if !category.Valid() {
			respondError(w, http.StatusBadRequest, "unknown category")
			return
		}
		patch.Category = &category
	}

	image, present, err := productImage(r)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	if present {
		patch.Image = &image
	}

	id := chi.URLParam(r, "id")
	found, err := h.store.UpdateProduct(r.Context(), id, patch)
	if !h.record(w, "update_product", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	product, _ := h.store.Product(id)
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if !h.record(w, "delete_product", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productImage returns the uploaded image as a data URL, or the plain
// "image" form value when no file was sent.
func productImage(r *http.Request) (string, bool, error) {
	_, fh, err := r.FormFile("image")
	switch {
	case err == nil:
		file, err := upload.Read(fh, upload.ProductImages)
		if err != nil {
			return "", false, err
		}
		return file.DataURL, true, nil
	case errors.Is(err, http.ErrMissingFile):
		if value, ok := formField(r, "image"); ok && value != "" {
			return value, true, nil
		}
		return "", false, nil
	default:
		return "", false, err
	}
}

// formField reports whether key was sent at all, so updates can tell an
// omitted field from an emptied one.
func formField(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

// parsePrice reads a non-negative price; anything unparsable counts as 0.
func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

func respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, upload.ErrUnsupportedType):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, upload.ErrEmptyFile):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusBadRequest, "unable to read upload")
	}
}
