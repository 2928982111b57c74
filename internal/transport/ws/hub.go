package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"kidassess/internal/session"
)

// EventType tags an observer message
type EventType string

// Session lifecycle events pushed to observers
const (
	EvtQuestionLoaded EventType = "question_loaded"
	EvtNarration      EventType = "narration"
	EvtRevealed       EventType = "awaiting_selection"
	EvtLocked         EventType = "locked"
	EvtAnswerRecorded EventType = "answer_recorded"
	EvtFilterEmpty    EventType = "filter_empty"
)

// Message is the observer envelope format
type Message struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session lifecycle events out to operator observers. An operator
// watches a respondent's session live without being able to interfere with
// it.
type Hub struct {
	// session -> connections
	observers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	log zerolog.Logger
}

// Connection represents one observer WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message bound for a session's observers
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates the hub and starts its dispatch loop.
func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		observers:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.observers[conn.SessionID] == nil {
				h.observers[conn.SessionID] = make(map[*Connection]bool)
			}
			h.observers[conn.SessionID][conn] = true
			h.mu.Unlock()
			h.log.Debug().Str("session", conn.SessionID).Msg("observer connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.observers[conn.SessionID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.observers, conn.SessionID)
				}
			}
			h.mu.Unlock()
			h.log.Debug().Str("session", conn.SessionID).Msg("observer disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.observers[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds an observer connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes an observer connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends a session event to its observers (implements
// service.Broadcaster).
func (h *Hub) Publish(sessionID, event string, view session.View) {
	payload, _ := json.Marshal(view)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    EventType(event),
			Payload: payload,
		},
	}
}
