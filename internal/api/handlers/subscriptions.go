package handlers

import (
	"net/http"

	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	var input dto.UpdateSubscriptionInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	subscription, err := h.factory.Services.Subscription.Update(r.Context(), membershipNumber, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, subscription, http.Header{})
}

func (h *Handlers) SubscriptionHistory(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	history, err := h.factory.Services.Subscription.History(r.Context(), membershipNumber)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, history, http.Header{})
}
