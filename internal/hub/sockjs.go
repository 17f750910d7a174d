package hub

import (
    "net/http"

    "github.com/google/uuid"
    "github.com/igm/sockjs-go/sockjs"
)

// Handler returns the sockjs endpoint that attaches dashboard clients
// to the hub.  Clients only listen; inbound messages are read to keep
// the session alive and otherwise discarded.
func (h *Hub) Handler(prefix string) http.Handler {
    return sockjs.NewHandler(prefix, sockjs.DefaultOptions, func(session sockjs.Session) {
        client := &Client{ID: uuid.NewString(), Send: make(chan []byte, 16)}
        h.Register(client)
        defer h.Unregister(client)

        go func() {
            for msg := range client.Send {
                _ = session.Send(string(msg))
            }
        }()

        for {
            if _, err := session.Recv(); err != nil {
                return
            }
        }
    })
}
