package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// liveInterval is the push rate of the /api/live stream.
const liveInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The appliance serves a LAN UI; the usual origin rules don't apply.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleLive upgrades to a websocket and pushes the status document once
// immediately and then every liveInterval until the client goes away.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	// Drain control frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(liveInterval)
	defer ticker.Stop()

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(s.statusDoc(time.Now().UTC())); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("live stream closed: %v", err)
			}
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
