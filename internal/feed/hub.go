package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32

	// AllGames subscribes a watcher to every game and the scores feed.
	AllGames = ""
)

// Event is the JSON frame sent to watchers.
type Event struct {
	Kind   notify.Kind `json:"kind"`
	GameID string      `json:"gameId,omitempty"`
	Text   string      `json:"text"`
}

// Hub fans public notices out to websocket watchers. It implements notify.Notifier;
// direct notices stay private and are never broadcast.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool
}

type watcher struct {
	conn   *websocket.Conn
	gameID string
	send   chan []byte
}

// NewHub constructs a Hub. checkOrigin may be nil to accept same-origin requests only.
func NewHub(logger *slog.Logger, checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

// Notify broadcasts n to watchers of its game and to AllGames watchers.
func (h *Hub) Notify(_ context.Context, n notify.Notice) error {
	if n.Kind == notify.KindDirect {
		return nil
	}
	payload, err := json.Marshal(Event{Kind: n.Kind, GameID: n.GameID, Text: n.Text})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	targets := []string{AllGames}
	if n.GameID != "" {
		targets = append(targets, n.GameID)
	}
	for _, key := range targets {
		for w := range h.watchers[key] {
			select {
			case w.send <- payload:
			default:
				// A full buffer drops the watcher; Notify never blocks.
				h.removeLocked(w)
				logging.Warn(h.logger, "feed watcher too slow, disconnecting", logging.FieldGameID, w.gameID)
			}
		}
	}
	return nil
}

// Serve upgrades the request and streams notices for gameID until the client leaves.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, gameID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	wt := &watcher{conn: conn, gameID: gameID, send: make(chan []byte, sendBuffer)}
	if !h.add(wt) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		return conn.Close()
	}
	logging.Info(h.logger, "feed watcher joined", logging.FieldGameID, gameID)

	go h.writePump(wt)
	h.readPump(wt)
	return nil
}

// Watchers reports how many watchers follow gameID.
func (h *Hub) Watchers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[gameID])
}

// Close disconnects every watcher and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.watchers {
		for w := range set {
			h.removeLocked(w)
		}
	}
}

func (h *Hub) add(w *watcher) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.watchers[w.gameID]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[w.gameID] = set
	}
	set[w] = struct{}{}
	return true
}

func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(w)
}

func (h *Hub) removeLocked(w *watcher) {
	set, ok := h.watchers[w.gameID]
	if !ok {
		return
	}
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, w.gameID)
	}
	close(w.send)
}

// readPump discards client frames and notices when the connection goes away.
func (h *Hub) readPump(w *watcher) {
	defer func() {
		h.remove(w)
		_ = w.conn.Close()
	}()
	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn(h.logger, "feed watcher closed unexpectedly", logging.FieldGameID, w.gameID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
