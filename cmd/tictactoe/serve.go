package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/tictactoe/cmd/tictactoe/shared"
	"github.com/lox/tictactoe/internal/config"
	"github.com/lox/tictactoe/internal/server"
	"github.com/lox/tictactoe/internal/session"
	"golang.org/x/sync/errgroup"
)

// ServeCmd runs the web front-end for a single shared session
type ServeCmd struct {
	Config   string `short:"c" default:"${config_file}" help:"Path to HCL configuration file"`
	Addr     string `help:"Listen address, host:port (overrides config)"`
	LogLevel string `short:"l" help:"Log level: debug, info, warn or error (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := shared.SetupLogger(cfg.Level())

	sess := session.New(logger,
		session.WithPlayers(session.Players{X: cfg.Players.X, O: cfg.Players.O}),
		session.WithTheme(shared.ResolveTheme(cfg.Theme, nil)),
	)
	sess.Start()
	defer sess.Close()

	srv := server.NewServer(addr, sess, logger)

	logger.Info("Starting tic-tac-toe server",
		"address", addr,
		"config", c.Config,
		"player_x", cfg.Players.X,
		"player_o", cfg.Players.O,
		"theme", cfg.Theme)

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		announceReady(ctx, logger, server.BaseURL(addr))
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// announceReady logs the URL once the server answers its health check
func announceReady(ctx context.Context, logger *log.Logger, baseURL string) {
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.WaitForHealthy(waitCtx, baseURL); err != nil {
		if ctx.Err() == nil {
			logger.Warn("Server did not become healthy", "error", err)
		}
		return
	}
	logger.Info("Ready", "url", baseURL)
}
