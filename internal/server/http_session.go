package server

import (
	"net/http"

	"github.com/alfredjeanlab/marketpro/internal/events"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleLogin handles POST /api/login.
func (s *SiteServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	remote := clientAddr(r)
	if !s.logins.Allow(remote) {
		writeJSON(w, http.StatusTooManyRequests, loginResponse{Message: "Too many login attempts"})
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: err.Error()})
		return
	}

	token, ok := s.gate.Authenticate(req.Username, req.Password)
	s.recordAndPublish(r.Context(), events.TopicSessionLogin, events.SessionLogin{
		Username: req.Username,
		Success:  ok,
		Remote:   remote,
	})
	if !ok {
		s.logger.Info("login rejected", "username", req.Username, "remote", remote)
		writeJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}
