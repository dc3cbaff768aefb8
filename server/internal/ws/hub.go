package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obsidianstack/statcard/server/internal/api"
	"github.com/obsidianstack/statcard/server/internal/store"
)

const (
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10 // must stay below pongWait

	// sendBufSize is how many snapshots may queue for one renderer before it
	// is considered too slow and dropped.
	sendBufSize = 16

	// maxInbound caps frames read from renderers; they only send control frames.
	maxInbound = 512
)

// EventSnapshot is the event name of every message the hub sends.
const EventSnapshot = "snapshot"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS is enforced at the reverse proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is the JSON envelope sent to renderers.
type Message struct {
	Event string               `json:"event"`
	Data  api.SnapshotResponse `json:"data"`
}

// Hub fans the card snapshot out to connected renderers.
//
// The set of renderers is owned by the Run goroutine: ServeHTTP only hands
// renderers over through register and unregister, and Run alone closes their
// send queues.
type Hub struct {
	store    *store.Store
	interval time.Duration

	notify     chan struct{}
	register   chan *renderer
	unregister chan *renderer
	stopped    chan struct{} // closed when Run returns

	connected atomic.Int64
}

// renderer is one connected WebSocket client.
type renderer struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that reads from st and broadcasts every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:      st,
		interval:   interval,
		notify:     make(chan struct{}, 1),
		register:   make(chan *renderer),
		unregister: make(chan *renderer),
		stopped:    make(chan struct{}),
	}
}

// Notify requests an out-of-band broadcast. Calls made while one is already
// pending are coalesced. It never blocks.
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Count returns the number of connected renderers.
func (h *Hub) Count() int {
	return int(h.connected.Load())
}

// Run owns the renderer set. It greets new renderers with the current
// snapshot, broadcasts every interval and after each Notify, and drops
// renderers that leave or fall behind. On ctx cancellation it closes every
// connection and returns. Run must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	t := time.NewTicker(h.interval)
	defer t.Stop()

	renderers := make(map[*renderer]struct{})
	drop := func(r *renderer) {
		if _, ok := renderers[r]; !ok {
			return
		}
		delete(renderers, r)
		close(r.send)
		h.connected.Store(int64(len(renderers)))
	}

	for {
		select {
		case <-ctx.Done():
			for r := range renderers {
				drop(r)
			}
			return

		case r := <-h.register:
			renderers[r] = struct{}{}
			h.connected.Store(int64(len(renderers)))
			if msg, ok := h.snapshot(); ok {
				r.send <- msg // fresh queue, cannot be full
			}

		case r := <-h.unregister:
			drop(r)

		case <-t.C:
			h.broadcast(renderers, drop)

		case <-h.notify:
			h.broadcast(renderers, drop)
		}
	}
}

func (h *Hub) broadcast(renderers map[*renderer]struct{}, drop func(*renderer)) {
	if len(renderers) == 0 {
		return
	}
	msg, ok := h.snapshot()
	if !ok {
		return
	}
	for r := range renderers {
		select {
		case r.send <- msg:
		default:
			slog.Warn("ws: dropping slow renderer", "remote", r.conn.RemoteAddr().String())
			drop(r)
		}
	}
}

func (h *Hub) snapshot() ([]byte, bool) {
	msg, err := json.Marshal(Message{Event: EventSnapshot, Data: api.BuildSnapshot(h.store)})
	if err != nil {
		slog.Error("ws: encode snapshot", "err", err)
		return nil, false
	}
	return msg, true
}

// ServeHTTP upgrades the connection and streams snapshots to it until the
// renderer disconnects or the hub stops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return // the upgrader already replied
	}

	r := &renderer{conn: conn, send: make(chan []byte, sendBufSize)}
	select {
	case h.register <- r:
	case <-h.stopped:
		conn.Close()
		return
	}

	go r.writeLoop()
	r.readLoop()

	select {
	case h.unregister <- r:
	case <-h.stopped:
	}
}

// writeLoop forwards queued snapshots and keeps the connection alive with
// pings. A closed queue ends the session with a close frame.
func (r *renderer) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		r.conn.Close()
	}()

	for {
		var (
			kind    int
			payload []byte
		)
		select {
		case msg, ok := <-r.send:
			if !ok {
				kind = websocket.CloseMessage
			} else {
				kind, payload = websocket.TextMessage, msg
			}
		case <-ping.C:
			kind = websocket.PingMessage
		}

		r.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
		if err := r.conn.WriteMessage(kind, payload); err != nil || kind == websocket.CloseMessage {
			return
		}
	}
}

// readLoop consumes inbound frames so pongs and close frames are processed.
// It returns once the connection is dead.
func (r *renderer) readLoop() {
	defer r.conn.Close()

	r.conn.SetReadLimit(maxInbound)
	r.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	r.conn.SetPongHandler(func(string) error {
		return r.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := r.conn.ReadMessage(); err != nil {
			return
		}
	}
}
