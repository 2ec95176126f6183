package server

import (
	"encoding/json"
	"time"

	"github.com/feltworks/feltd/internal/game"
)

// Message is the WebSocket envelope for both directions
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// NewEventMessage wraps a table event; the event type doubles as the wire
// message name.
func NewEventMessage(ev game.Event) (*Message, error) {
	return NewMessage(MessageType(ev.EventType()), ev)
}

// Client → Server Messages

// PlayerActionData is the payload of a player_action request. Amount is
// incremental: the chips added by this action, defaulting to 0 for check.
type PlayerActionData struct {
	Type   string `json:"type"`
	Seat   int    `json:"seat"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

// ErrorData is the payload of an addressed error reply
type ErrorData struct {
	Message string `json:"message"`
}
