// Package hub fans registration and config change events out to
// connected dashboard clients.  Handlers publish through the Publisher
// interface so nothing reads ambient global state.
package hub

import (
    "encoding/json"
    "log"
    "sync"
    "time"
)

// Event names broadcast to clients.
const (
    EventRegistrationCreated       = "registration.created"
    EventRegistrationStatusChanged = "registration.status_changed"
    EventRegistrationDeleted       = "registration.deleted"
    EventConfigUpdated             = "config.updated"
    EventFormToggled               = "form.toggled"
)

// Publisher is the interface handlers use to emit events.  Delivery is
// best-effort; correctness of the mutations never depends on it.
type Publisher interface {
    Publish(event string, payload interface{})
}

// Envelope is the wire format delivered to clients.
type Envelope struct {
    Event   string      `json:"event"`
    Payload interface{} `json:"payload,omitempty"`
    SentAt  string      `json:"sentAt"`
}

// Client is one connected dashboard session.  Send is drained by the
// transport goroutine; a full buffer drops the message rather than
// blocking the broadcast.
type Client struct {
    ID   string
    Send chan []byte
}

// Hub tracks connected clients and broadcasts events to all of them.
type Hub struct {
    mu      sync.RWMutex
    clients map[string]*Client
}

// New returns an empty hub.
func New() *Hub {
    return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(client *Client) {
    h.mu.Lock()
    defer h.mu.Unlock()
    h.clients[client.ID] = client
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
    h.mu.Lock()
    defer h.mu.Unlock()
    if _, ok := h.clients[client.ID]; !ok {
        return
    }
    delete(h.clients, client.ID)
    close(client.Send)
}

// Publish implements Publisher.  Marshal errors and slow clients are
// logged and otherwise ignored.
func (h *Hub) Publish(event string, payload interface{}) {
    body, err := json.Marshal(Envelope{
        Event:   event,
        Payload: payload,
        SentAt:  time.Now().UTC().Format(time.RFC3339),
    })
    if err != nil {
        log.Printf("hub: marshal %s event: %v", event, err)
        return
    }
    h.mu.RLock()
    defer h.mu.RUnlock()
    for _, client := range h.clients {
        select {
        case client.Send <- body:
        default:
            log.Printf("hub: drop %s for client %s", event, client.ID)
        }
    }
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
    h.mu.RLock()
    defer h.mu.RUnlock()
    return len(h.clients)
}
