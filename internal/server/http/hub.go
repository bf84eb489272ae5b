package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"shadowchess/internal/server/game"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

type wsClient struct {
	hub    *Hub
	conn   *websocket.Conn
	gameID string // empty: every game
	send   chan []byte
}

// Hub fans game events out to WebSocket clients. Slow clients drop
// messages rather than stall the game that produced them.
type Hub struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	broadcast chan game.Event
	log       *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[*wsClient]struct{}),
		broadcast: make(chan game.Event, 64),
		log:       log,
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-h.broadcast:
			msg := wsMessage{Type: "event", Payload: mustMarshal(ev)}
			h.mu.Lock()
			for c := range h.clients {
				if c.gameID == "" || c.gameID == ev.GameID {
					c.sendJSON(msg)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(ev game.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("event dropped", zap.String("game", ev.GameID), zap.String("type", string(ev.Type)))
	}
}

func (h *Hub) Register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *wsClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveGameWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	gameID := r.URL.Query().Get("game_id")
	client := &wsClient{hub: hub, conn: conn, gameID: gameID, send: make(chan []byte, 16)}
	hub.Register(client)
	client.sendJSON(wsMessage{Type: "hello", Payload: mustMarshal(map[string]string{"game_id": gameID})})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
