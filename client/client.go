// Package client talks to a soundfolio server from the gallery side: it
// fetches the catalog and delivers like notifications.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"soundfolio/model"
)

// Client is an HTTP client for the soundfolio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchTracks retrieves the catalog, newest upload first.
func (c *Client) FetchTracks(ctx context.Context) ([]*model.Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tracks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracks request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch tracks: server returned %d", resp.StatusCode)
	}

	tracks := make([]*model.Track, 0)
	if err := json.NewDecoder(resp.Body).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("failed to decode tracks response: %w", err)
	}
	return tracks, nil
}

// SendLike posts a like notification for the given track. A non-200
// response counts as a confirmed delivery failure.
func (c *Client) SendLike(ctx context.Context, songID, songTitle string) error {
	payload, err := json.Marshal(model.LikeNotice{SongID: songID, SongTitle: songTitle})
	if err != nil {
		return fmt.Errorf("failed to marshal like payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/like", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build like request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send like: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send like: server returned %d", resp.StatusCode)
	}
	return nil
}
