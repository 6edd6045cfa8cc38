package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/tictactoe/cmd/tictactoe/shared"
	"github.com/lox/tictactoe/internal/config"
	"github.com/lox/tictactoe/internal/session"
	"github.com/lox/tictactoe/internal/tui"
)

// PlayCmd runs the game in the terminal. Both players share the keyboard.
type PlayCmd struct {
	Config   string `short:"c" default:"${config_file}" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config); logs are discarded when unset"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.Server.LogFile = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the terminal belongs to bubbletea, so logs go to a file or nowhere
	logger, closer, err := shared.SetupFileLogger(cfg.Server.LogFile, cfg.Level())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	sess := session.New(logger,
		session.WithPlayers(session.Players{X: cfg.Players.X, O: cfg.Players.O}),
		session.WithTheme(shared.ResolveTheme(cfg.Theme, shared.TerminalIsDark)),
	)
	defer sess.Close()

	model := tui.New(sess, logger)
	sess.Start()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
