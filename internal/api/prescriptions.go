package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacie/m/domain"
	"pharmacie/m/internal/upload"
)

func (h *Handler) createPrescription(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := domain.PrescriptionInput{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
		Note:  strings.TrimSpace(r.FormValue("note")),
	}
	if in.Name == "" || in.Phone == "" {
		respondError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	file, err := upload.Read(fh, upload.Prescriptions)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	in.File = file.DataURL
	in.FileName = file.Name
	in.FileType = file.Type

	prescription, err := h.store.AddPrescription(r.Context(), in)
	if !h.record(w, "add_prescription", err) {
		return
	}
	respondJSON(w, http.StatusCreated, prescription)
}

func (h *Handler) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Prescriptions())
}

func (h *Handler) downloadPrescription(w http.ResponseWriter, r *http.Request) {
	prescription, ok := h.store.Prescription(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "prescription not found")
		return
	}
	contentType, data, err := upload.ParseDataURL(prescription.File)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "stored file is unreadable")
		return
	}

	name := prescription.FileName
	if name == "" {
		name = "ordonnance-" + prescription.ID
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) deletePrescription(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.DeletePrescription(r.Context(), chi.URLParam(r, "id"))
	if !h.record(w, "delete_prescription", err) {
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "prescription not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
