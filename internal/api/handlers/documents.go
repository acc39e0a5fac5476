package handlers

import (
	"net/http"

	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	var input dto.UploadDocumentInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	doc, err := h.factory.Services.Document.Upload(r.Context(), membershipNumber, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, doc, http.Header{})
}

func (h *Handlers) MemberDocuments(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	docs, err := h.factory.Services.Document.List(r.Context(), membershipNumber)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, docs, http.Header{})
}

func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")
	documentType := chi.URLParam(r, "type")

	if err := h.factory.Services.Document.Delete(r.Context(), membershipNumber, documentType); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{"deleted": true}, http.Header{})
}

func (h *Handlers) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	target, err := h.factory.Services.Document.GenerateUploadURL(r.Context())
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, target, http.Header{})
}
