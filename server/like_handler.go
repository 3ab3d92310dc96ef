package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"soundfolio/logger"
	"soundfolio/model"
)

// LikeHandler relays a like notification to the site owner. Nothing is
// persisted server-side; the liked set lives with the client.
func (h *APIHandler) LikeHandler(w http.ResponseWriter, r *http.Request) {
	var notice model.LikeNotice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		logger.Error("Failed to decode like payload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to process like")
		return
	}

	if strings.TrimSpace(notice.SongID) == "" || strings.TrimSpace(notice.SongTitle) == "" {
		logger.Warn("Rejected like with missing fields",
			logger.String("songId", notice.SongID),
			logger.String("songTitle", notice.SongTitle))
		writeError(w, http.StatusInternalServerError, "Failed to process like")
		return
	}

	if err := h.mailer.SendLikeNotice(r.Context(), notice.SongID, notice.SongTitle); err != nil {
		logger.Error("Failed to deliver like notice",
			logger.String("songId", notice.SongID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to process like")
		return
	}

	logger.Info("Like recorded",
		logger.String("songId", notice.SongID),
		logger.String("songTitle", notice.SongTitle))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Like recorded successfully"})
}
