// Package spectate streams round snapshots to remote viewers over websockets.
package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/Brick-Bastion/internal/sim"
)

const (
	sendBuffer = 16 // frames queued per viewer before dropping
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512 // viewers only send control frames
)

// Envelope is the wire message; Type is "snapshot" or "hello".
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hello is sent once to every new viewer.
type Hello struct {
	Viewers int `json:"viewers"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Spectating is read-only, so any page may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type viewer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected viewer. Publish never blocks:
// a viewer whose queue is full misses frames.
type Hub struct {
	mu      sync.Mutex
	viewers map[*viewer]struct{}
	latest  []byte // last encoded snapshot envelope
	closed  bool
	logger  *log.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{viewers: make(map[*viewer]struct{}), logger: logger}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Publish encodes snap once and queues it for every viewer.
func (h *Hub) Publish(snap sim.Snapshot) {
	msg, err := encode("snapshot", snap)
	if err != nil {
		h.logger.Error("encode snapshot", "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = msg
	for v := range h.viewers {
		select {
		case v.send <- msg:
		default:
		}
	}
}

// Latest returns the most recent snapshot envelope, or nil before the first
// Publish.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Close disconnects every viewer and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for v := range h.viewers {
		close(v.send)
		delete(h.viewers, v)
	}
}

// Handler serves the websocket stream on /ws and the latest snapshot as
// plain JSON on /snapshot.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/snapshot", h.serveLatest)
	return mux
}

func (h *Hub) serveLatest(w http.ResponseWriter, _ *http.Request) {
	latest := h.Latest()
	if latest == nil {
		http.Error(w, "no round running", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(latest)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	v := &viewer{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.viewers[v] = struct{}{}
	n := len(h.viewers)
	hello, _ := encode("hello", Hello{Viewers: n})
	v.send <- hello
	if h.latest != nil {
		v.send <- h.latest
	}
	h.mu.Unlock()

	h.logger.Info("viewer connected", "remote", r.RemoteAddr, "viewers", n)
	go v.writePump()
	h.readPump(v, r.RemoteAddr)
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
}

// readPump drains control frames so pongs and closes are seen, and
// unregisters the viewer when the connection ends.
func (h *Hub) readPump(v *viewer, remote string) {
	defer func() {
		h.remove(v)
		v.conn.Close()
		h.logger.Info("viewer disconnected", "remote", remote)
	}()
	v.conn.SetReadLimit(readLimit)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("viewer read", "remote", remote, "err", err)
			}
			return
		}
	}
}

func (v *viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encode(typ string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Data: data})
}
