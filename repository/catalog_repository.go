package repository

import (
	"context"
	"errors"
	"fmt"

	"soundfolio/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStoreUnavailable indicates the catalog store could not be reached.
// Callers surface it as a failure and never return partial results.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// CatalogStore defines the interface for catalog data operations.
// The catalog is keyed by the media host's external identifier: upserting a
// track with an existing ExternalID replaces every other field.
type CatalogStore interface {
	UpsertTrack(ctx context.Context, track *model.Track) error
	ListTracks(ctx context.Context) ([]*model.Track, error)
}

// gormCatalogStore implements CatalogStore over a GORM connection.
type gormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a CatalogStore backed by the given connection.
func NewGormCatalogStore(db *gorm.DB) CatalogStore {
	return &gormCatalogStore{db: db}
}

// UpsertTrack inserts the track or, when its ExternalID already exists,
// replaces all other fields (last delivery wins).
func (s *gormCatalogStore) UpsertTrack(ctx context.Context, track *model.Track) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "media_url", "duration", "uploaded_at", "format", "updated_at",
		}),
	}).Create(track).Error
	if err != nil {
		return fmt.Errorf("%w: upsert track %s: %v", ErrStoreUnavailable, track.ExternalID, err)
	}
	return nil
}

// ListTracks returns the full catalog sorted by upload recency, newest first.
func (s *gormCatalogStore) ListTracks(ctx context.Context) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	err := s.db.WithContext(ctx).Order("uploaded_at DESC").Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list tracks: %v", ErrStoreUnavailable, err)
	}
	return tracks, nil
}
