// Package view derives everything the front-ends display from a session
// snapshot. Nothing here is stored; every value is recomputed per render.
package view

import (
	"fmt"
	"strings"

	"github.com/lox/tictactoe/internal/game"
	"github.com/lox/tictactoe/internal/session"
)

// Title is the heading shown above the board
const Title = "Tic Tac Toe"

// Cell is one square of the board as drawn
type Cell struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Winning  bool   `json:"winning"`
	Playable bool   `json:"playable"`
}

// Cells projects the board and win line onto nine cells
func Cells(s game.Snapshot) [game.BoardSize]Cell {
	win, won := s.Winner()

	var cells [game.BoardSize]Cell
	for i, mark := range s.Board {
		cells[i] = Cell{
			Index:    i,
			Label:    mark.String(),
			Winning:  won && win.Line.Contains(i),
			Playable: s.Playable(i),
		}
	}
	return cells
}

// Rows lays cells out as the 3x3 grid
func Rows(cells [game.BoardSize]Cell) [3][3]Cell {
	var rows [3][3]Cell
	for i, c := range cells {
		rows[i/3][i%3] = c
	}
	return rows
}

// DisplayName is the player's name, or the bare mark when the name is blank
func DisplayName(s session.Snapshot, mark game.Mark) string {
	if name := strings.TrimSpace(s.Name(mark)); name != "" {
		return name
	}
	return mark.String()
}

// Status is "<winner> wins" once the game is won, otherwise "Next: <player>"
func Status(s session.Snapshot) string {
	if win, ok := s.Game.Winner(); ok {
		return DisplayName(s, win.Mark) + " wins"
	}
	return "Next: " + DisplayName(s, s.Game.Turn)
}

// TimerLabel shows the seconds left in the turn
func TimerLabel(s session.Snapshot) string {
	return fmt.Sprintf("⏳ Timer: %ds", s.Game.Timer)
}

// Celebration returns the overlay headline while the game is won
func Celebration(s session.Snapshot) (string, bool) {
	win, ok := s.Game.Winner()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("🎉 %s Wins! 🎉", DisplayName(s, win.Mark)), true
}

// ThemeIcon is the glyph on the theme toggle: the theme it switches to
func ThemeIcon(theme session.Theme) string {
	if theme == session.ThemeDark {
		return "☀"
	}
	return "☾"
}

// Shell is the complete display model of the game screen
type Shell struct {
	SessionID   string               `json:"sessionId"`
	Version     uint64               `json:"version"`
	Title       string               `json:"title"`
	Status      string               `json:"status"`
	Timer       int                  `json:"timer"`
	TimerLabel  string               `json:"timerLabel"`
	Turn        game.Mark            `json:"turn"`
	Cells       [game.BoardSize]Cell `json:"cells"`
	Won         bool                 `json:"won"`
	Draw        bool                 `json:"draw"`
	Celebration string               `json:"celebration,omitempty"`
	Players     session.Players      `json:"players"`
	Theme       session.Theme        `json:"theme"`
	ThemeIcon   string               `json:"themeIcon"`
}

// NewShell builds the display model for s
func NewShell(s session.Snapshot) Shell {
	celebration, won := Celebration(s)
	return Shell{
		SessionID:   s.ID,
		Version:     s.Version,
		Title:       Title,
		Status:      Status(s),
		Timer:       s.Game.Timer,
		TimerLabel:  TimerLabel(s),
		Turn:        s.Game.Turn,
		Cells:       Cells(s.Game),
		Won:         won,
		Draw:        s.Game.Draw(),
		Celebration: celebration,
		Players:     s.Players,
		Theme:       s.Theme,
		ThemeIcon:   ThemeIcon(s.Theme),
	}
}

// Rows lays the shell's cells out as the 3x3 grid
func (sh Shell) Rows() [3][3]Cell {
	return Rows(sh.Cells)
}
