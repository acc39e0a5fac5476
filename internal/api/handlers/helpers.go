package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adl-parti/membership-backend/internal/dto"
)

type envelope map[string]any

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"data":   data,
		"status": status,
	}); err != nil {
		return err
	}

	return nil
}

func (h *Handlers) getPaginationParams(r *http.Request) *dto.QueryOptions {
	// Default to 20, clamp to [1,100]
	q := dto.QueryOptions{Limit: 20}

	// Parse & clamp limit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			q.Limit = uint32(n)
		}
	}

	// Directly assign cursor & sort if present
	if v := r.URL.Query().Get("cursor"); v != "" {
		q.Cursor = &v
	}
	if v := r.URL.Query().Get("sort"); v != "" {
		q.Sort = &v
	}

	return &q
}

func (h *Handlers) getMemberFiltersQuery(r *http.Request) *dto.MemberFilters {
	filters := dto.MemberFilters{}

	if v := r.URL.Query().Get("wilaya"); v != "" {
		filters.Wilaya = &v
	}

	if v := r.URL.Query().Get("baladiya"); v != "" {
		filters.Baladiya = &v
	}

	if v := r.URL.Query().Get("status"); v != "" {
		filters.Status = &v
	}

	if v := r.URL.Query().Get("subscription_type"); v != "" {
		filters.SubscriptionType = &v
	}

	if v := r.URL.Query().Get("subscription_year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.SubscriptionYear = &n
		}
	}

	if v := r.URL.Query().Get("first_join_year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.FirstJoinYear = &n
		}
	}

	return &filters
}
