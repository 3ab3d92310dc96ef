package model

import "time"

// Track represents one catalog entry sourced from the media host.
// ExternalID is the host-assigned identifier and the upsert key: re-delivery
// of an upload event for the same ExternalID replaces every other field.
type Track struct {
	ID         int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	ExternalID string    `json:"id" gorm:"column:external_id;uniqueIndex;size:191;not null"`
	Title      string    `json:"title" gorm:"not null"`
	MediaURL   string    `json:"url" gorm:"column:media_url;not null"`
	Duration   int       `json:"duration" gorm:"not null"` // Whole seconds, rounded on ingest
	UploadedAt time.Time `json:"uploadedAt" gorm:"index;not null"`
	Format     string    `json:"format" gorm:"size:32"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName keeps the table name stable regardless of pluralization rules.
func (Track) TableName() string {
	return "tracks"
}
