package server

import (
	"net/http"

	"soundfolio/cache"
	"soundfolio/logger"
)

// GetTracksHandler returns the full catalog sorted by upload recency.
// Serves from the Redis cache when warm; a store failure returns an error
// response, never a partial listing.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := cache.GetCatalog(ctx); err == nil {
		writeJSON(w, http.StatusOK, cached)
		return
	} else if !cache.IsMiss(err) {
		logger.Warn("Catalog cache read failed, falling back to store", logger.ErrorField(err))
	}

	tracks, err := h.store.ListTracks(ctx)
	if err != nil {
		logger.Error("Failed to fetch tracks", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch songs")
		return
	}

	if err := cache.SetCatalog(ctx, tracks); err != nil {
		logger.Warn("Failed to populate catalog cache", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, tracks)
}
