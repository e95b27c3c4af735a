package server

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/alfredjeanlab/marketpro/internal/presence"
)

// handlePage handles GET / with the server-rendered site.
func (s *SiteServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		writeError(w, http.StatusNotFound, "no front end configured")
		return
	}
	s.visit(r, presence.KindPage)

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, s.currentDocument(r)); err != nil {
		s.logger.Error("rendering page", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// spaHandler serves files from dir. Paths that do not name a file get
// index.html so client-side routes resolve.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir() && !hasIndex(name)) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}

func hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil
}
