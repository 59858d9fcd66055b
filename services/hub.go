package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
)

// Hub keeps the websocket clients watching a question's activity and pushes
// every event of that question to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

type Client struct {
	hub        *Hub
	id         string
	socket     *websocket.Conn
	send       chan []byte
	questionID uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("Client registered: %s for question %d - Total clients: %d", client.id, client.questionID, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client unregistered: %s for question %d - Total clients: %d", client.id, client.questionID, len(h.clients))
			}
			h.mutex.Unlock()

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Broadcast queues event for the clients of event.QuestionID. It is dropped
// once the hub has stopped.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

func (h *Hub) deliver(event Event) {
	data, err := json.Marshal(Message{Type: event.Type, Payload: event})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event.Type, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for client := range h.clients {
		if client.questionID != event.QuestionID {
			continue
		}
		select {
		case client.send <- data:
			sent++
		default:
			log.Printf("Client %s send buffer full, closing connection", client.id)
			delete(h.clients, client)
			close(client.send)
			continue
		}

		// Nothing more will happen on a deleted question.
		if event.Type == EventQuestionDeleted {
			delete(h.clients, client)
			close(client.send)
		}
	}
	log.Printf("Event %s sent to %d clients of question %d", event.Type, sent, event.QuestionID)
}

// ClientCount returns how many clients watch questionID.
func (h *Hub) ClientCount(questionID uint) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for client := range h.clients {
		if client.questionID == questionID {
			count++
		}
	}
	return count
}

func (h *Hub) RegisterClient(conn *websocket.Conn, questionID uint) *Client {
	client := &Client{
		hub:        h,
		id:         uuid.NewString(),
		socket:     conn,
		send:       make(chan []byte, sendBufferSize),
		questionID: questionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return client
	}

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe relays events published on a Redis channel by any instance into
// this hub. It returns when ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, client *redis.Client, channel string) error {
	pubsub := client.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshaling event from %s: %v", channel, err)
				continue
			}
			h.Broadcast(event)
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message from %s: %v", c.id, err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		c.socket.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	c.socket.SetWriteDeadline(time.Now().Add(writeWait))
	c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong"})
		c.hub.mutex.RLock()
		if c.hub.clients[c] {
			select {
			case c.send <- data:
			default:
			}
		}
		c.hub.mutex.RUnlock()

	default:
		log.Printf("Unknown message type: %s from client %s", msg.Type, c.id)
	}
}
