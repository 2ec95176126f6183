package server

// Note: server-to-client message names come straight from the game event
// types in internal/game/events.go; the constants here cover the
// client-to-server side of the protocol plus the error reply.

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoinGame     MessageType = "join_game"
	MessageTypeStartGame    MessageType = "start_game"
	MessageTypePlayerAction MessageType = "player_action"

	// Server to client messages
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
