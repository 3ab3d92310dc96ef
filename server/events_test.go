package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func subscribe(hub *Hub, id string, buffer int) *eventClient {
	c := &eventClient{id: id, send: make(chan CatalogEvent, buffer)}
	hub.register <- c
	return c
}

func receiveEvent(t *testing.T, c *eventClient) CatalogEvent {
	t.Helper()
	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("no catalog event received")
		return CatalogEvent{}
	}
}

func sendClosed(c *eventClient) bool {
	select {
	case _, ok := <-c.send:
		return !ok
	default:
		return false
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := newRunningHub(t)
	c1 := subscribe(hub, "c1", 8)
	c2 := subscribe(hub, "c2", 8)

	hub.BroadcastCatalogUpdate("abc123")

	for _, c := range []*eventClient{c1, c2} {
		event := receiveEvent(t, c)
		assert.Equal(t, eventCatalogUpdated, event.Type)
		assert.Equal(t, "abc123", event.ExternalID)
		assert.NotZero(t, event.Timestamp)
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := newRunningHub(t)
	slow := subscribe(hub, "slow", 0) // full by construction, never read
	fast := subscribe(hub, "fast", 8)

	hub.BroadcastCatalogUpdate("abc123")

	assert.Equal(t, "abc123", receiveEvent(t, fast).ExternalID)
	require.Eventually(t, func() bool { return sendClosed(slow) },
		time.Second, 2*time.Millisecond, "slow consumer not dropped")

	// The surviving client keeps receiving.
	hub.BroadcastCatalogUpdate("def456")
	assert.Equal(t, "def456", receiveEvent(t, fast).ExternalID)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := newRunningHub(t)
	c := subscribe(hub, "c1", 8)

	hub.unregister <- c

	require.Eventually(t, func() bool { return sendClosed(c) },
		time.Second, 2*time.Millisecond)
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	c := subscribe(hub, "c1", 8)

	hub.Stop()

	require.Eventually(t, func() bool { return sendClosed(c) },
		time.Second, 2*time.Millisecond)
}

func TestServeWSDeliversCatalogEvents(t *testing.T) {
	hub := newRunningHub(t)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The handshake completes before the hub registers the client, so
	// keep broadcasting until the subscription sees an event.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.BroadcastCatalogUpdate("abc123")
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event CatalogEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, eventCatalogUpdated, event.Type)
	assert.Equal(t, "abc123", event.ExternalID)
}
