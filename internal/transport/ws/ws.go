package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fleetmesh/dispatch/internal/domain/event"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	accountID  string
	delegateID string
}

// Hub tracks live delegate connections. It doubles as the presence source
// for eligibility ("connected right now") and as the real-time push channel
// that complements the poll protocol.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]client),
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) handleWS(c *gin.Context) {
	accountID := c.Query("account_id")
	delegateID := c.Query("delegate_id")
	if accountID == "" || delegateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id and delegate_id are required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = client{accountID: accountID, delegateID: delegateID}
	h.mu.Unlock()

	slog.Info("delegate connected", "account_id", accountID, "delegate_id", delegateID)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		slog.Info("delegate disconnected", "account_id", accountID, "delegate_id", delegateID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// IsConnected implements eligibility.Presence.
func (h *Hub) IsConnected(accountID, delegateID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cl := range h.clients {
		if cl.accountID == accountID && cl.delegateID == delegateID {
			return true
		}
	}
	return false
}

// PushTaskEvent implements dispatch.Pusher: the event fans out to every
// connection of the tenant, and delegates filter on their side.
func (h *Hub) PushTaskEvent(accountID string, ev event.TaskEvent) {
	h.send(accountID, ev)
}

// Broadcast forwards a bus event to the tenant's live connections.
func (h *Hub) Broadcast(e event.Event) {
	h.send(e.AccountID, e)
}

func (h *Hub) send(accountID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, cl := range h.clients {
		if cl.accountID != accountID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Error("websocket write failed", "delegate_id", cl.delegateID, "error", err)
		}
	}
}
