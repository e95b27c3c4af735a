package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/presence"
	"github.com/alfredjeanlab/marketpro/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered. When
// auth is required, writes to the document and headline suggestions need
// the session token as a Bearer header.
func (s *SiteServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/data", s.handleGetData)
	mux.HandleFunc("POST /api/data", s.requireSession(s.handlePostData))
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/suggest", s.requireSession(s.handleSuggest))
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("GET /api/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /api/visitors", s.requireSession(s.handleVisitors))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.staticDir != "" {
		mux.Handle("GET /", spaHandler(s.staticDir))
	} else {
		mux.HandleFunc("GET /{$}", s.handlePage)
	}
	return RequestLogger(s.logger, Recoverer(s.logger, mux))
}

// handleHealth handles GET /api/health.
func (s *SiteServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"stream_clients":  s.stream.subscriberCount(),
		"active_visitors": s.visitors.Active(visitorWindow),
	})
}

// visitorWindow is how recently a visitor must have been seen to count as
// active.
const visitorWindow = 5 * time.Minute

// handleVisitors handles GET /api/visitors. ?window= takes a Go duration;
// window=0 lists everyone still tracked.
func (s *SiteServer) handleVisitors(w http.ResponseWriter, r *http.Request) {
	window := visitorWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = d
	}
	roster := s.visitors.Roster(window)
	writeJSON(w, http.StatusOK, map[string]any{
		"visitors": roster,
		"total":    len(roster),
	})
}

// handleGetData handles GET /api/data. Before the first write the built-in
// defaults are returned.
func (s *SiteServer) handleGetData(w http.ResponseWriter, r *http.Request) {
	s.visit(r, presence.KindData)
	raw, err := s.store.GetDocument(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		raw, err = json.Marshal(model.Default())
	}
	if err != nil {
		s.logger.Error("reading site document", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to read data")
		return
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s.logger.Error("stored site document is not valid JSON", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to read data")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handlePostData handles POST /api/data. The body replaces the stored
// document as is.
func (s *SiteServer) handlePostData(w http.ResponseWriter, r *http.Request) {
	doc, err := readJSONObject(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.PutDocument(r.Context(), doc); err != nil {
		s.logger.Error("writing site document", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update data")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicDocumentUpdated, events.DocumentUpdated{
		Document: doc,
		Remote:   clientAddr(r),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Data updated successfully",
		"data":    json.RawMessage(doc),
	})
}

// readJSONObject reads the request body and returns it compacted, keys in
// the order the client sent them. Anything other than a single JSON object
// is an inputError.
func readJSONObject(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var raw json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		return nil, inputError("request body must be a JSON object")
	}
	if dec.More() {
		return nil, inputError("request body must be a single JSON object")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil || buf.Len() == 0 || buf.Bytes()[0] != '{' {
		return nil, inputError("request body must be a JSON object")
	}
	return buf.Bytes(), nil
}

// decodeJSON decodes a small request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return inputError("invalid request body")
	}
	return nil
}

// clientAddr returns the remote host without the port, for rate limiting
// and event attribution.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
