package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprint(w, "Hello, world!")
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Init(s.sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var bet BetData
	if err := decodeBody(r, &bet); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.service.StartGame(s.sessionID(r), bet.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var msg ActionData
	if err := decodeBody(r, &msg); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.service.Action(s.sessionID(r), msg.Action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSimulateDealer(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.SimulateDealer(s.sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var msg ActionData
	if err := decodeBody(r, &msg); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.service.End(s.sessionID(r), msg.Action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Stats(s.sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionListData{Sessions: s.service.Store().List()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.service.Store().Create()
	writeJSON(w, http.StatusCreated, SessionCreatedData{ID: id})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.service.Store().Delete(id) {
		writeJSON(w, http.StatusNotFound, ErrorData{Code: "session_not_found", Message: "session not found: " + id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
