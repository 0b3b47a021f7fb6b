package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"coin-arcade-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes balance and round updates to connected players.
// It implements games.Broadcaster; pushes are fire-and-forget and never
// block settlement.
type WebSocketHandler struct {
	store *services.RedisStore
	hub   *webSocketHub
}

type webSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan *wsMessage
}

type wsClient struct {
	UserID string
	Conn   *websocket.Conn
}

type wsMessage struct {
	Type   string `json:"type"`
	UserID string `json:"-"`
	Data   any    `json:"data"`
}

func NewWebSocketHandler(store *services.RedisStore) *WebSocketHandler {
	hub := &webSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan *wsMessage, 100),
	}

	go hub.run()

	return &WebSocketHandler{store: store, hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &wsClient{UserID: userID, Conn: conn}
	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			client.Conn.WriteJSON(wsMessage{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

func (h *WebSocketHandler) sendBalance(client *wsClient) {
	balance, err := h.store.Balance(context.Background(), client.UserID)
	if err != nil {
		log.Printf("Failed to get balance for WS: %v", err)
		return
	}

	client.Conn.WriteJSON(wsMessage{
		Type: "BALANCE_UPDATE",
		Data: gin.H{"balance": balance},
	})
}

// BalanceUpdate implements games.Broadcaster.
func (h *WebSocketHandler) BalanceUpdate(userID string, balance float64) {
	h.push(&wsMessage{
		Type:   "BALANCE_UPDATE",
		UserID: userID,
		Data:   gin.H{"balance": balance, "timestamp": time.Now().Unix()},
	})
}

// RoundUpdate implements games.Broadcaster.
func (h *WebSocketHandler) RoundUpdate(userID, gameID string, multiplier float64) {
	h.push(&wsMessage{
		Type:   "ROUND_UPDATE",
		UserID: userID,
		Data: gin.H{
			"game_id":    gameID,
			"multiplier": multiplier,
			"timestamp":  time.Now().Unix(),
		},
	})
}

func (h *WebSocketHandler) push(msg *wsMessage) {
	select {
	case h.hub.broadcast <- msg:
	default:
		// Drop rather than stall a settlement path.
	}
}

func (hub *webSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.UserID] = client.Conn

		case client := <-hub.unregister:
			if conn, ok := hub.clients[client.UserID]; ok && conn == client.Conn {
				delete(hub.clients, client.UserID)
			}

		case message := <-hub.broadcast:
			if conn, ok := hub.clients[message.UserID]; ok {
				conn.WriteJSON(message)
			}
		}
	}
}
