package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeMove        MessageType = "move"
	MessageTypeReset       MessageType = "reset"
	MessageTypeSetName     MessageType = "set_name"
	MessageTypeToggleTheme MessageType = "toggle_theme"

	// Server to client messages
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeUnknownType    = "unknown_message_type"
	ErrorCodeInvalidMark    = "invalid_mark"
)
