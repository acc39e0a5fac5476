package handlers

import (
	"net/http"

	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var input dto.RegisterMemberInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.Member.Register(r.Context(), input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, member, http.Header{})
}

func (h *Handlers) MemberByNumber(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	member, err := h.factory.Services.Member.GetByNumber(r.Context(), membershipNumber)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, http.Header{})
}

func (h *Handlers) UpdateProfilePhoto(w http.ResponseWriter, r *http.Request) {
	membershipNumber := chi.URLParam(r, "number")

	var input dto.UpdateProfilePhotoInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.Member.UpdateProfilePhoto(r.Context(), membershipNumber, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, http.Header{})
}

func (h *Handlers) MembersForExport(w http.ResponseWriter, r *http.Request) {
	filters := h.getMemberFiltersQuery(r)
	opts := h.getPaginationParams(r)

	members, err := h.factory.Services.Member.GetForExport(r.Context(), *filters, *opts)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, members, http.Header{})
}

func (h *Handlers) MembersForCards(w http.ResponseWriter, r *http.Request) {
	filters := h.getMemberFiltersQuery(r)
	opts := h.getPaginationParams(r)

	cards, err := h.factory.Services.Member.GetForCards(r.Context(), *filters, *opts)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, cards, http.Header{})
}

func (h *Handlers) DownloadStats(w http.ResponseWriter, r *http.Request) {
	filters := h.getMemberFiltersQuery(r)

	stats, err := h.factory.Services.Member.GetDownloadStats(r.Context(), *filters)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats, http.Header{})
}

func (h *Handlers) AvailableWilayas(w http.ResponseWriter, r *http.Request) {
	wilayas, err := h.factory.Services.Member.AvailableWilayas(r.Context())
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, wilayas, http.Header{})
}

func (h *Handlers) AvailableBaladiyas(w http.ResponseWriter, r *http.Request) {
	var wilaya *string
	if v := r.URL.Query().Get("wilaya"); v != "" {
		wilaya = &v
	}

	baladiyas, err := h.factory.Services.Member.AvailableBaladiyas(r.Context(), wilaya)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, baladiyas, http.Header{})
}
