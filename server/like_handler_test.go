package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLikeDeliversNotice(t *testing.T) {
	h, _, m := newTestHandler()

	rec := postJSON(t, h.LikeHandler, "/api/like", `{"songId":"abc123","songTitle":"Song A"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Like recorded successfully"}`, rec.Body.String())
	require.Len(t, m.likes, 1)
	assert.Equal(t, [2]string{"abc123", "Song A"}, m.likes[0])
}

func TestLikeMissingFields(t *testing.T) {
	h, _, m := newTestHandler()

	rec := postJSON(t, h.LikeHandler, "/api/like", `{"songId":"abc123"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, m.likes)
}

func TestLikeRelayFailure(t *testing.T) {
	h, _, m := newTestHandler()
	m.fail = true

	rec := postJSON(t, h.LikeHandler, "/api/like", `{"songId":"abc123","songTitle":"Song A"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to process like"}`, rec.Body.String())
}

func TestContactRelaysMessage(t *testing.T) {
	h, _, m := newTestHandler()

	rec := postJSON(t, h.ContactHandler, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hello!"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Message sent successfully"}`, rec.Body.String())
	require.Len(t, m.contacts, 1)
	assert.Equal(t, [3]string{"Ada", "ada@example.com", "Hello!"}, m.contacts[0])
}

func TestContactRelayFailure(t *testing.T) {
	h, _, m := newTestHandler()
	m.fail = true

	rec := postJSON(t, h.ContactHandler, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hello!"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
