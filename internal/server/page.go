package server

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/lox/tictactoe/internal/view"
)

//go:embed web/index.html
var pageSource string

var pageTemplate = template.Must(template.New("index").Parse(pageSource))

// handlePage renders the current state so the first paint needs no script
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	shell := view.NewShell(s.session.Snapshot())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, shell); err != nil {
		s.logger.Error("Failed to render page", "error", err)
	}
}
