package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"soundfolio/logger"
	"soundfolio/model"

	"github.com/google/uuid"
)

// ContactHandler relays a visitor message to the site owner.
func (h *APIHandler) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		logger.Error("Failed to decode contact payload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	// Message ID ties the log line to a delivery for later follow-up.
	msgID := uuid.NewString()
	logger.Info("Contact message received",
		logger.String("messageId", msgID),
		logger.String("name", msg.Name),
		logger.String("email", msg.Email))

	if err := h.mailer.SendContact(r.Context(), msg.Name, msg.Email, msg.Message); err != nil {
		logger.Error("Failed to relay contact message",
			logger.String("messageId", msgID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}
