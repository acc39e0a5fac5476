package handlers

import (
	"net/http"

	"github.com/adl-parti/membership-backend/internal/dto"
)

func (h *Handlers) AdminSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.factory.Services.Settings.Get(r.Context())
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settings, http.Header{})
}

func (h *Handlers) UpsertAdminSettings(w http.ResponseWriter, r *http.Request) {
	var input dto.AdminSettingsInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	settings, err := h.factory.Services.Settings.Upsert(r.Context(), input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settings, http.Header{})
}
