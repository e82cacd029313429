package spectate

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Viewer is a single read-only WebSocket connection.
type Viewer struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newViewer(id string, hub *Hub, conn *websocket.Conn) *Viewer {
	return &Viewer{
		ID:   id,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// readPump discards anything viewers send and detects disconnects.
func (v *Viewer) readPump() {
	defer func() {
		select {
		case v.hub.unregister <- v:
		case <-v.hub.done:
		}
		v.conn.Close()
	}()

	v.conn.SetReadLimit(maxMessageSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				v.hub.logger.Debug("viewer read error", "viewer", v.ID, "err", err)
			}
			return
		}
	}
}

// writePump sends queued frames and keeps the connection alive with pings.
func (v *Viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case message, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
