package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
)

const (
	EventOrderCreated = "order.created"
	EventOrderStatus  = "order.status"
	EventPong         = "pong"

	// AllStores is the subscription of admins that watch every store
	AllStores uint = 0

	sendBufferSize = 64
)

// ClientMessage is what a screen may send over the socket
type ClientMessage struct {
	Type string `json:"type"` // ping
}

// OrderEvent is pushed to every screen watching the order's store
type OrderEvent struct {
	Type       string            `json:"type"`
	Order      *model.Order      `json:"order"`
	FromStatus model.OrderStatus `json:"from_status,omitempty"`
}

// Client is one open socket of a logged in user
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	StoreID       uint
	Send          chan []byte
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, userID, storeID uint) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		UserID:  userID,
		StoreID: storeID,
		Send:    make(chan []byte, sendBufferSize),
	}
}

// Hub fans order events out to the screens of each store
type Hub struct {
	// StoreID -> clients, AllStores holds the admin screens
	stores map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	mu sync.RWMutex
}

type BroadcastMessage struct {
	StoreID uint
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		stores:     make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.stores[client.StoreID]; !ok {
				h.stores[client.StoreID] = make(map[*Client]bool)
			}
			h.stores[client.StoreID][client] = true
			total := len(h.stores[client.StoreID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"store_id":       client.StoreID,
				"store_sessions": total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// Stop ends the Run loop
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.stores[client.StoreID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.stores, client.StoreID)
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":  client.UserID,
		"store_id": client.StoreID,
	})
}

func (h *Hub) deliver(message *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := []map[*Client]bool{h.stores[message.StoreID]}
	if message.StoreID != AllStores {
		targets = append(targets, h.stores[AllStores])
	}
	for _, clients := range targets {
		for client := range clients {
			select {
			case client.Send <- message.Message:
			default:
				go h.Unregister(client)
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"user_id":  client.UserID,
					"store_id": client.StoreID,
				})
			}
		}
	}
}

// SendToStore queues a message for every screen of the store
func (h *Hub) SendToStore(storeID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.broadcast <- &BroadcastMessage{StoreID: storeID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"store_id": storeID,
		})
	}
	return nil
}

func (h *Hub) OrderCreated(order *model.Order) {
	_ = h.SendToStore(order.StoreID, OrderEvent{Type: EventOrderCreated, Order: order})
}

func (h *Hub) OrderStatusChanged(order *model.Order, from model.OrderStatus) {
	_ = h.SendToStore(order.StoreID, OrderEvent{Type: EventOrderStatus, Order: order, FromStatus: from})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Sessions counts the sockets open for a store
func (h *Hub) Sessions(storeID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.stores[storeID])
}

// HandleClientMessage answers pings and ignores anything else
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		data, _ := json.Marshal(map[string]string{"type": EventPong})
		h.mu.RLock()
		defer h.mu.RUnlock()
		if h.stores[client.StoreID][client] {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}
