package server

import (
	"net/http"
	"time"

	"soundfolio/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// CatalogEvent is pushed to connected gallery sessions when the catalog
// changes, so an open page can re-fetch without polling.
type CatalogEvent struct {
	Type       string `json:"type"`
	ExternalID string `json:"externalId"`
	Timestamp  int64  `json:"timestamp"`
}

const eventCatalogUpdated = "catalog_updated"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// No authentication on any endpoint; the site is public.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type eventClient struct {
	id   string
	conn *websocket.Conn
	send chan CatalogEvent
}

// Hub fans one catalog event stream out to every connected client.
type Hub struct {
	clients    map[string]*eventClient
	register   chan *eventClient
	unregister chan *eventClient
	broadcast  chan CatalogEvent
	done       chan struct{}
}

// NewHub creates the hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*eventClient),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		broadcast:  make(chan CatalogEvent, 16),
		done:       make(chan struct{}),
	}
}

// Run owns the client map; all membership changes go through its channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			logger.Debug("Catalog event client connected", logger.String("clientId", client.id))
		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				logger.Debug("Catalog event client disconnected", logger.String("clientId", client.id))
			}
		case event := <-h.broadcast:
			for id, client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.clients, id)
					close(client.send)
				}
			}
		case <-h.done:
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastCatalogUpdate notifies all clients that a track was ingested.
func (h *Hub) BroadcastCatalogUpdate(externalID string) {
	event := CatalogEvent{
		Type:       eventCatalogUpdated,
		ExternalID: externalID,
		Timestamp:  time.Now().Unix(),
	}
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("Catalog event dropped, broadcast queue full",
			logger.String("externalId", externalID))
	}
}

// ServeWS upgrades the connection and subscribes it to catalog events.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket", logger.ErrorField(err))
		return
	}

	client := &eventClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan CatalogEvent, 8),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

// writePump pushes events to the peer until the send channel closes.
func (c *eventClient) writePump() {
	defer c.conn.Close()
	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames and detects the peer going away.
func (c *eventClient) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
