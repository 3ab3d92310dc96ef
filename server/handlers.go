package server

import (
	"encoding/json"
	"net/http"

	"soundfolio/config"
	"soundfolio/logger"
	"soundfolio/mailer"
	"soundfolio/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	store  repository.CatalogStore
	mailer mailer.Mailer
	hub    *Hub
	cfg    *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(store repository.CatalogStore, m mailer.Mailer, hub *Hub, cfg *config.Config) *APIHandler {
	return &APIHandler{
		store:  store,
		mailer: m,
		hub:    hub,
		cfg:    cfg,
	}
}

// writeJSON writes payload as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", logger.ErrorField(err))
	}
}

// writeError writes a JSON error body of the form {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
