package spectate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-flappy/internal/driver"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Viewers are read-only
	},
}

// Hub keeps the set of connected viewers and fans frames out to them.
// Publishing never blocks the game loop: frames are dropped when the hub
// or a viewer falls behind.
type Hub struct {
	viewers    map[*Viewer]bool
	register   chan *Viewer
	unregister chan *Viewer
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
	nextID     atomic.Uint64
	logger     *log.Logger
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		viewers:    make(map[*Viewer]bool),
		register:   make(chan *Viewer),
		unregister: make(chan *Viewer),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop. It returns when ctx is done, after
// disconnecting every viewer.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for v := range h.viewers {
				delete(h.viewers, v)
				close(v.send)
			}
			h.mu.Unlock()
			return

		case v := <-h.register:
			h.mu.Lock()
			h.viewers[v] = true
			n := len(h.viewers)
			h.mu.Unlock()
			h.logger.Info("viewer connected", "viewer", v.ID, "viewers", n)
			h.sendHello(v, n)

		case v := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.viewers[v]; ok {
				delete(h.viewers, v)
				close(v.send)
			}
			h.mu.Unlock()
			h.logger.Info("viewer disconnected", "viewer", v.ID)

		case data := <-h.broadcast:
			h.mu.RLock()
			for v := range h.viewers {
				select {
				case v.send <- data:
				default:
					h.logger.Debug("viewer buffer full, dropping frame", "viewer", v.ID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) sendHello(v *Viewer, viewers int) {
	data, err := json.Marshal(HelloMessage{Type: TypeHello, Viewers: viewers})
	if err != nil {
		return
	}
	select {
	case v.send <- data:
	default:
	}
}

// ViewerCount returns the number of connected viewers.
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Publish queues a frame for every viewer.
func (h *Hub) Publish(session string, f driver.Frame) {
	if f.Snapshot == nil || h.ViewerCount() == 0 {
		return
	}
	data, err := json.Marshal(NewFrameMessage(session, f))
	if err != nil {
		h.logger.Error("cannot encode frame", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Listener returns a driver listener publishing the session's frames.
func (h *Hub) Listener(session string) func(driver.Frame) {
	return func(f driver.Frame) {
		h.Publish(session, f)
	}
}

// Handler serves /watch (WebSocket upgrade) and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/watch", h.handleWatch)
	return mux
}

func (h *Hub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","viewers":%d}`, h.ViewerCount())
}

func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	v := newViewer(fmt.Sprintf("viewer-%d", h.nextID.Add(1)), h, conn)
	select {
	case h.register <- v:
	case <-h.done:
		conn.Close()
		return
	}

	go v.writePump()
	go v.readPump()
}
