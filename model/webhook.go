package model

// UploadEvent is the webhook envelope delivered by the media host.
// Only notification_type is guaranteed; the remaining fields are present on
// "upload" events. Duration arrives in possibly fractional seconds.
type UploadEvent struct {
	NotificationType string  `json:"notification_type"`
	PublicID         string  `json:"public_id"`
	OriginalFilename string  `json:"original_filename"`
	SecureURL        string  `json:"secure_url"`
	Duration         float64 `json:"duration"`
	CreatedAt        string  `json:"created_at"`
	Format           string  `json:"format"`
}

// NotificationUpload is the only event type that mutates the catalog.
// Unknown types are acknowledged and ignored.
const NotificationUpload = "upload"
