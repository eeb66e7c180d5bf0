// Package static serves the pre-built client bundle. Any path that is not a
// file in the bundle gets index.html so the client router can take over.
package static

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"
)

const indexFile = "index.html"

// Handler serves files from a bundle directory with an index.html fallback.
type Handler struct {
	fsys   fs.FS
	logger *zap.Logger
}

// NewHandler serves the directory root.
func NewHandler(root string, logger *zap.Logger) *Handler {
	return NewFSHandler(os.DirFS(root), logger)
}

// NewFSHandler serves any file system, e.g. an embedded bundle.
func NewFSHandler(fsys fs.FS, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{fsys: fsys, logger: logger.Named("static")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Cleaning a rooted path drops every "..", so the name cannot leave the
	// bundle.
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = indexFile
	}

	if h.serveFile(w, r, name) {
		return
	}
	if !h.serveFile(w, r, indexFile) {
		h.logger.Error("bundle has no index.html")
		http.NotFound(w, r)
	}
}

// serveFile writes name if it is a regular file in the bundle.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	f, err := h.fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			h.logger.Warn("read bundle file", zap.String("file", name), zap.Error(err))
			return false
		}
		content = bytes.NewReader(data)
	}

	if name == indexFile {
		w.Header().Set("Cache-Control", "no-cache")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	return true
}
