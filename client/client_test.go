package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soundfolio/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTracks(t *testing.T) {
	uploaded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tracks", r.URL.Path)
		json.NewEncoder(w).Encode([]*model.Track{
			{ExternalID: "abc123", Title: "Song A", MediaURL: "https://host/a.mp3", Duration: 126, UploadedAt: uploaded, Format: "mp3"},
		})
	}))
	defer srv.Close()

	tracks, err := New(srv.URL).FetchTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "abc123", tracks[0].ExternalID)
	assert.Equal(t, 126, tracks[0].Duration)
}

func TestFetchTracksServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to fetch songs"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchTracks(context.Background())
	assert.Error(t, err)
}

func TestSendLike(t *testing.T) {
	var got model.LikeNotice
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/like", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "Like recorded successfully"})
	}))
	defer srv.Close()

	err := New(srv.URL).SendLike(context.Background(), "abc123", "Song A")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.SongID)
	assert.Equal(t, "Song A", got.SongTitle)
}

func TestSendLikeNonSuccessIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to process like"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).SendLike(context.Background(), "abc123", "Song A")
	assert.Error(t, err)
}
