package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"soundfolio/cache"
	"soundfolio/logger"
	"soundfolio/model"
)

// errMalformedEvent indicates an upload event missing required fields.
// The host is expected to retry; no mutation happens on this path.
var errMalformedEvent = errors.New("malformed upload event")

// WebhookHandler ingests upload notifications from the media host.
// Non-"upload" notification types are acknowledged without any catalog
// mutation. Duplicate deliveries are idempotent through the upsert key;
// redeliveries with changed fields follow last-write-wins.
func (h *APIHandler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var event model.UploadEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logger.Error("Failed to decode webhook payload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to handle webhook")
		return
	}

	logger.Info("Received webhook event", logger.String("notificationType", event.NotificationType))

	if event.NotificationType != model.NotificationUpload {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	track, err := trackFromEvent(&event)
	if err != nil {
		logger.Warn("Rejected upload event",
			logger.String("publicId", event.PublicID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to handle webhook")
		return
	}

	if err := h.store.UpsertTrack(r.Context(), track); err != nil {
		logger.Error("Failed to upsert track",
			logger.String("externalId", track.ExternalID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to handle webhook")
		return
	}

	logger.Info("New song uploaded",
		logger.String("externalId", track.ExternalID),
		logger.String("title", track.Title),
		logger.Int("duration", track.Duration))

	h.afterIngest(r.Context(), track.ExternalID)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// afterIngest invalidates the cached listing and notifies live gallery
// sessions. Both are best effort; the upsert already succeeded.
func (h *APIHandler) afterIngest(ctx context.Context, externalID string) {
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warn("Failed to invalidate catalog cache", logger.ErrorField(err))
	}
	if h.hub != nil {
		h.hub.BroadcastCatalogUpdate(externalID)
	}
}

// trackFromEvent validates an upload event and normalizes it into a Track.
// The host reports fractional durations; they are rounded to the nearest
// whole second before persisting.
func trackFromEvent(event *model.UploadEvent) (*model.Track, error) {
	var missing []string
	if strings.TrimSpace(event.PublicID) == "" {
		missing = append(missing, "public_id")
	}
	if strings.TrimSpace(event.OriginalFilename) == "" {
		missing = append(missing, "original_filename")
	}
	if strings.TrimSpace(event.SecureURL) == "" {
		missing = append(missing, "secure_url")
	}
	if strings.TrimSpace(event.CreatedAt) == "" {
		missing = append(missing, "created_at")
	}
	if strings.TrimSpace(event.Format) == "" {
		missing = append(missing, "format")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", errMalformedEvent, strings.Join(missing, ", "))
	}
	if event.Duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %f", errMalformedEvent, event.Duration)
	}

	uploadedAt, err := time.Parse(time.RFC3339, event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q: %v", errMalformedEvent, event.CreatedAt, err)
	}

	return &model.Track{
		ExternalID: event.PublicID,
		Title:      event.OriginalFilename,
		MediaURL:   event.SecureURL,
		Duration:   int(math.Round(event.Duration)),
		UploadedAt: uploadedAt,
		Format:     event.Format,
	}, nil
}
