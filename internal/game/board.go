package game

import (
	"fmt"
	"strings"
)

// Mark is the content of a board cell and the identity of a player.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// String returns "X", "O" or "" for an empty cell
func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseMark accepts "x"/"X"/"o"/"O"
func ParseMark(s string) (Mark, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, true
	case "O":
		return O, true
	default:
		return Empty, false
	}
}

// MarshalText encodes a mark as "X", "O" or "".
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts "X", "O" (either case) or "" for Empty.
func (m *Mark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = Empty
		return nil
	}
	parsed, ok := ParseMark(string(text))
	if !ok {
		return fmt.Errorf("invalid mark %q", text)
	}
	*m = parsed
	return nil
}

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Board holds the nine cells in row-major order: row = i/3, col = i%3.
type Board [BoardSize]Mark

// InRange reports whether index addresses a cell.
func InRange(index int) bool {
	return index >= 0 && index < BoardSize
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells hold the given mark.
func (b Board) Count(m Mark) int {
	n := 0
	for _, cell := range b {
		if cell == m {
			n++
		}
	}
	return n
}

// String renders the board as three rows, using "." for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for i, cell := range b {
		if cell == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(cell.String())
		}
		if i%3 == 2 && i != BoardSize-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
