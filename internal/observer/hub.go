// Package observer implements the `/observe` websocket fan-out: decoder and
// metrics output is broadcast to every connected observer session without
// awaiting drain, mirroring DongleServer's broadcast discipline (spec §6,
// §9).
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"
)

var zstdEncoder, _ = zstd.NewWriter(nil)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type session struct {
	id       uuid.UUID
	conn     *websocket.Conn
	compact  bool // opted into zstd-compressed frames via ?compact=1
	mu       sync.Mutex
}

// Hub fans decode events out to every websocket observer connected to
// `/observe`.
type Hub struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[uuid.UUID]*session)}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as an observer session until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[observer] upgrade failed: %v", err)
		return
	}

	sess := &session{id: uuid.New(), conn: conn, compact: r.URL.Query().Get("compact") == "1"}
	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	log.Printf("[observer] session %s connected", sess.id)

	// Drain inbound frames (observers are read-only) until the peer closes;
	// this keeps the websocket's control-frame handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.sessions, sess.id)
	h.mu.Unlock()
	conn.Close()
	log.Printf("[observer] session %s disconnected", sess.id)
}

// Event is the envelope wrapping every published payload with a `kind`
// discriminator (spec §6 addendum).
type Event struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// Publish marshals an Event and writes it to every connected session
// without waiting for a slow peer to drain: each write has a 10 ms
// deadline, and a write error (including a missed deadline) drops that
// session.
func (h *Hub) Publish(kind string, payload interface{}) {
	data, err := json.Marshal(Event{Kind: kind, Payload: payload})
	if err != nil {
		log.Printf("[observer] marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sess := range h.sessions {
		sess.mu.Lock()
		var err error
		sess.conn.SetWriteDeadline(time.Now().Add(10 * time.Millisecond))
		if sess.compact {
			err = sess.conn.WriteMessage(websocket.BinaryMessage, zstdEncoder.EncodeAll(data, nil))
		} else {
			err = sess.conn.WriteMessage(websocket.TextMessage, data)
		}
		sess.mu.Unlock()
		if err != nil {
			sess.conn.Close()
			delete(h.sessions, id)
		}
	}
}

// Count returns the number of connected observer sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
