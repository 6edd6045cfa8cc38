// Package server serves the game to a browser: the page itself, a WebSocket
// that streams every session change, and a small JSON API with the same
// operations.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/tictactoe/internal/session"
)

// Server represents the HTTP and WebSocket server for one session
type Server struct {
	addr        string
	session     *session.Session
	upgrader    websocket.Upgrader
	page        *template.Template
	logger      *log.Logger
	mu          sync.Mutex
	connections map[*Connection]bool
	httpServer  *http.Server
}

// NewServer creates a server for sess
func NewServer(addr string, sess *session.Session, logger *log.Logger) *Server {
	s := &Server{
		addr:    addr,
		session: sess,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		page:        pageTemplate,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requestLogger)
		r.Get("/", s.handlePage)
		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/moves", s.handleMove)
			r.Post("/reset", s.handleReset)
			r.Put("/players/{mark}", s.handleSetName)
			r.Post("/theme/toggle", s.handleToggleTheme)
		})
	})

	return r
}

// Start listens and serves until Shutdown
func (s *Server) Start() error {
	s.logger.Info("Starting server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown closes every WebSocket and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// ConnectionCount returns the number of open WebSockets
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.session, s.logger)

	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// requestLogger logs each request at debug level
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()))
	})
}
