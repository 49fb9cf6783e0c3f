package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/deep-stoker/internal/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating is read-only and public.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// helloFrame is the first frame a spectator receives: every shift
// running at connect time.
type helloFrame struct {
	Type string        `json:"type"`
	Data []live.Status `json:"data"`
}

// Hub fans live board events out to websocket spectators.
type Hub struct {
	board  *live.Board
	logger *log.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a hub for board. Run must be called exactly once for
// spectators to connect.
func NewHub(board *live.Board, logger *log.Logger) *Hub {
	return &Hub{
		board:      board,
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run subscribes to the board and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	sub := h.board.Subscribe(live.DefaultBuffer)
	defer h.board.Unsubscribe(sub.ID())

	h.logger.Info("spectator hub started")
	defer func() {
		close(h.done)
		h.logger.Info("spectator hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("spectator connected", "client", client.id)

		case client := <-h.unregister:
			h.drop(client)

		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			msg, err := json.Marshal(live.Wrap(evt))
			if err != nil {
				h.logger.Error("cannot encode live event", "kind", evt.Kind(), "error", err)
				continue
			}
			h.broadcast(msg)
		}
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and attaches a spectator.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h, conn)

	hello, err := json.Marshal(helloFrame{Type: "live", Data: h.board.Live()})
	if err == nil {
		client.send <- hello
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// broadcast queues msg for every client; clients that cannot keep up are
// disconnected.
func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("dropping slow spectator", "client", client.id)
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("spectator disconnected", "client", client.id)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}
