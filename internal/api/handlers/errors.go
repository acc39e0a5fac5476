package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adl-parti/membership-backend/internal/services"
)

func (h *Handlers) logError(r *http.Request, err error) {
	h.factory.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
}

func (h *Handlers) errorResponse(w http.ResponseWriter, r *http.Request, message any) {
	status := http.StatusInternalServerError
	body := map[string]any{
		"message": "internal server error",
	}

	if apiErr, ok := message.(*services.APIError); ok {
		status = apiErr.Status
		body["message"] = apiErr.Message
		if len(apiErr.Errors) > 0 {
			body["errors"] = apiErr.Errors
		}
	}
	body["status"] = status

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logError(r, fmt.Errorf("failed to write error response: %w", err))
		return
	}

	h.logError(r, fmt.Errorf("%v", message))
}
