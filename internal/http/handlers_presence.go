package http

import (
	"fmt"
	"net/http"

	"expenses/internal/core"
)

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	user, err := core.ParseUser(r.PathValue("userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.tracker.Connect(user)

	data, err := s.dataset(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"data":    data,
		"message": fmt.Sprintf("Welcome back, %s!", user),
	})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	user, err := core.ParseUser(r.PathValue("userId"))
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	ok := s.tracker.Heartbeat(user)
	respondJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to reset data")
		return
	}
	s.tracker.Reset()

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "All data has been reset",
	})
}
