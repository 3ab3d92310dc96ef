package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"soundfolio/logger"
	"soundfolio/storage"
)

// AssetHandler streams cover art and media objects from the MinIO bucket.
// Object keys mirror the request path under /covers/ and /media/.
func AssetHandler(w http.ResponseWriter, r *http.Request) {
	objectPath := strings.TrimPrefix(r.URL.Path, "/")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	object, err := storage.OpenObject(ctx, objectPath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", contentTypeFor(objectPath))
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("Error serving asset from MinIO",
			logger.String("object", objectPath),
			logger.ErrorField(err))
	}
}

func contentTypeFor(objectPath string) string {
	switch {
	case strings.HasSuffix(objectPath, ".webp"):
		return "image/webp"
	case strings.HasSuffix(objectPath, ".png"):
		return "image/png"
	case strings.HasSuffix(objectPath, ".jpg"), strings.HasSuffix(objectPath, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(objectPath, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(objectPath, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(objectPath, ".flac"):
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
