package server

import (
	"errors"
	"net/http"

	"github.com/alfredjeanlab/marketpro/internal/assistant"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/presence"
)

type chatRequest struct {
	Message string `json:"message"`
}

type suggestRequest struct {
	Section string `json:"section"`
}

// handleChat handles POST /api/chat.
func (s *SiteServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.chats.Allow(clientAddr(r)) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.visit(r, presence.KindChat)
	reply, err := s.assistant.Chat(r.Context(), req.Message)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleSuggest handles POST /api/suggest. Suggestions are based on the
// hero copy currently stored.
func (s *SiteServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc := s.currentDocument(r)
	suggestions, err := s.assistant.SuggestHeadlines(r.Context(), doc.Hero, req.Section)
	if err != nil {
		s.logger.Warn("headline suggestions failed", "section", req.Section, "err", err)
		writeError(w, http.StatusBadGateway, "Failed to generate suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// currentDocument returns the stored document merged over the defaults.
// Read and parse failures fall back to the defaults.
func (s *SiteServer) currentDocument(r *http.Request) *model.SiteDocument {
	raw, err := s.store.GetDocument(r.Context())
	if err != nil {
		return model.Default()
	}
	doc, err := model.Merge(raw)
	if err != nil {
		s.logger.Warn("stored site document does not parse", "err", err)
		return model.Default()
	}
	return doc
}
