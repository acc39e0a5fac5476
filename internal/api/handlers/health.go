package handlers

import (
	"net/http"
)

func (h *Handlers) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope{
		"status": "available",
		"env":    h.config.Server.Env,
	}, http.Header{})
}
