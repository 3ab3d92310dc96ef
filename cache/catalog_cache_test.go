package cache

import (
	"context"
	"testing"
	"time"

	"soundfolio/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		c.Close()
	})
}

func sampleTracks() []*model.Track {
	return []*model.Track{
		{ExternalID: "abc123", Title: "Song A", MediaURL: "https://host/a.mp3", Duration: 126,
			UploadedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Format: "mp3"},
		{ExternalID: "def456", Title: "Song B", MediaURL: "https://host/b.mp3", Duration: 90,
			UploadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Format: "mp3"},
	}
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	_, err := GetCatalog(ctx)
	assert.True(t, IsMiss(err))

	require.NoError(t, SetCatalog(ctx, sampleTracks()))

	cached, err := GetCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "abc123", cached[0].ExternalID)
	assert.Equal(t, "Song A", cached[0].Title)
	assert.Equal(t, 126, cached[0].Duration)
	assert.Equal(t, "def456", cached[1].ExternalID)
}

func TestInvalidateCatalogDropsListing(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCatalog(ctx, sampleTracks()))
	require.NoError(t, InvalidateCatalog(ctx))

	_, err := GetCatalog(ctx)
	assert.True(t, IsMiss(err))
}

func TestNilClientDisablesCache(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	_, err := GetCatalog(ctx)
	assert.True(t, IsMiss(err))
	assert.NoError(t, SetCatalog(ctx, sampleTracks()))
	assert.NoError(t, InvalidateCatalog(ctx))
}
