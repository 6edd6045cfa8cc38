package session

import "github.com/lox/tictactoe/internal/game"

// Default display names
const (
	DefaultPlayerX = "Player X"
	DefaultPlayerO = "Player O"
)

// Players holds the display names for both marks. Names are free text and
// never influence the game.
type Players struct {
	X string `json:"x"`
	O string `json:"o"`
}

// DefaultPlayers returns the names used when none are configured
func DefaultPlayers() Players {
	return Players{X: DefaultPlayerX, O: DefaultPlayerO}
}

// Name returns the display name for mark, or "" for Empty
func (p Players) Name(mark game.Mark) string {
	switch mark {
	case game.X:
		return p.X
	case game.O:
		return p.O
	default:
		return ""
	}
}

// With returns a copy of p with mark's name replaced
func (p Players) With(mark game.Mark, name string) Players {
	switch mark {
	case game.X:
		p.X = name
	case game.O:
		p.O = name
	}
	return p
}
