package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeInit   MessageType = "init"
	MessageTypeStart  MessageType = "start"
	MessageTypeAction MessageType = "action"
	MessageTypeDealer MessageType = "dealer"
	MessageTypeEnd    MessageType = "end"
	MessageTypeStats  MessageType = "stats"

	// Server to client messages
	MessageTypeGameState MessageType = "game_state"
	MessageTypeStatsData MessageType = "stats_data"
	MessageTypeError     MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
