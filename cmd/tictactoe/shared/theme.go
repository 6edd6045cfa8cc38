package shared

import (
	"github.com/lox/tictactoe/internal/session"
	"github.com/muesli/termenv"
)

// ResolveTheme turns a configured theme into a session theme. "auto" asks
// dark whether the background is dark.
func ResolveTheme(setting string, dark func() bool) session.Theme {
	if setting == "auto" {
		if dark != nil && dark() {
			return session.ThemeDark
		}
		return session.ThemeLight
	}
	theme, err := session.ParseTheme(setting)
	if err != nil {
		return session.ThemeLight
	}
	return theme
}

// TerminalIsDark reports whether stdout's terminal has a dark background
func TerminalIsDark() bool {
	return termenv.HasDarkBackground()
}
