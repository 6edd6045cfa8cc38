package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/tictactoe/internal/session"
)

// Palette is the set of colors for one theme
type Palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Cursor  lipgloss.Color
	Winning lipgloss.Color
	X       lipgloss.Color
	O       lipgloss.Color
}

var (
	LightPalette = Palette{
		Text:    lipgloss.Color("#222222"),
		Muted:   lipgloss.Color("#767676"),
		Accent:  lipgloss.Color("#7D56F4"),
		Border:  lipgloss.Color("#B0B0B0"),
		Cursor:  lipgloss.Color("#7D56F4"),
		Winning: lipgloss.Color("#96CEB4"),
		X:       lipgloss.Color("#D7263D"),
		O:       lipgloss.Color("#1B6CA8"),
	}

	DarkPalette = Palette{
		Text:    lipgloss.Color("#FAFAFA"),
		Muted:   lipgloss.Color("#626262"),
		Accent:  lipgloss.Color("#FFD700"),
		Border:  lipgloss.Color("#45475A"),
		Cursor:  lipgloss.Color("#FFD700"),
		Winning: lipgloss.Color("#04B575"),
		X:       lipgloss.Color("#FF6B6B"),
		O:       lipgloss.Color("#89B4FA"),
	}
)

// PaletteFor returns the palette for theme
func PaletteFor(theme session.Theme) Palette {
	if theme == session.ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

// Styles are the rendered styles derived from a palette
type Styles struct {
	Palette Palette

	Title       lipgloss.Style
	Players     lipgloss.Style
	Status      lipgloss.Style
	Timer       lipgloss.Style
	Celebration lipgloss.Style
	Cell        lipgloss.Style
	Cursor      lipgloss.Style
	Winning     lipgloss.Style
	X           lipgloss.Style
	O           lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme session.Theme) Styles {
	p := PaletteFor(theme)

	cell := lipgloss.NewStyle().
		Width(5).
		Height(1).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),

		Players: lipgloss.NewStyle().Foreground(p.Text),
		Status:  lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Timer:   lipgloss.NewStyle().Foreground(p.Muted),

		Celebration: lipgloss.NewStyle().
			Foreground(p.Winning).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Winning).
			Padding(0, 2),

		Cell:    cell,
		Cursor:  cell.BorderForeground(p.Cursor),
		Winning: cell.Background(p.Winning).BorderForeground(p.Winning),

		X: lipgloss.NewStyle().Foreground(p.X).Bold(true),
		O: lipgloss.NewStyle().Foreground(p.O).Bold(true),

		Help: lipgloss.NewStyle().Foreground(p.Muted),
	}
}
