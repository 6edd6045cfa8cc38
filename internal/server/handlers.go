package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lox/tictactoe/internal/view"
)

const maxBodySize = 4096

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, view.NewShell(s.session.Snapshot()))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var data MoveData
	if !s.readBody(w, r, &data) {
		return
	}

	snap, applied := s.session.ApplyMoveSnapshot(*data.Index)
	s.writeJSON(w, http.StatusOK, MoveResult{
		Applied: applied,
		State:   view.NewShell(snap),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.writeJSON(w, http.StatusOK, view.NewShell(s.session.Snapshot()))
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.readBody(w, r, &body) {
		return
	}

	data := SetNameData{Mark: chi.URLParam(r, "mark"), Name: body.Name}
	if err := validate.Struct(&data); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorCodeInvalidMark, "mark must be X or O")
		return
	}
	if err := s.session.SetPlayerName(markOf(data.Mark), data.Name); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorCodeInvalidMark, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, view.NewShell(s.session.Snapshot()))
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	s.session.ToggleTheme()
	s.writeJSON(w, http.StatusOK, view.NewShell(s.session.Snapshot()))
}

// readBody decodes and validates a JSON body, replying 400 on failure
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorCodeInvalidMessage, "failed to read body")
		return false
	}
	if err := decode(raw, v); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorCodeInvalidMessage, err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorData{Code: code, Message: message})
}
