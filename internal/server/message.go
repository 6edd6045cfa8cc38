package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lox/tictactoe/internal/game"
	"github.com/lox/tictactoe/internal/view"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
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

// Client → Server Messages

// MoveData asks for a mark at Index. An index outside the board is accepted
// and ignored like any other rejected move.
type MoveData struct {
	Index *int `json:"index" validate:"required"`
}

// SetNameData renames the player for Mark
type SetNameData struct {
	Mark string `json:"mark" validate:"required,oneof=X O x o"`
	Name string `json:"name"`
}

// Server → Client Messages

// StateData is the full display model, sent after every change
type StateData = view.Shell

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MoveResult is the REST reply to a move
type MoveResult struct {
	Applied bool       `json:"applied"`
	State   view.Shell `json:"state"`
}

var validate = validator.New()

// decode unmarshals and validates a request payload
func decode(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
			case "oneof":
				details = append(details, fmt.Sprintf("%s must be one of [%s]", strings.ToLower(fe.Field()), fe.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
			}
		}
		return errors.New(strings.Join(details, "; "))
	}
	return nil
}

// markOf parses a validated mark letter
func markOf(s string) game.Mark {
	mark, _ := game.ParseMark(s)
	return mark
}
