package http

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaintenancePage is the only page served while maintenance mode is on.
const MaintenancePage = "/maintenance.html"

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".ico":  "image/x-icon",
}

const (
	notFoundHTML    = "<h1>404 - File Not Found</h1>"
	serverErrorHTML = "<h1>500 - Internal Server Error</h1>"
)

// ContentType maps a file name to the MIME type the site is served with.
func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// maintenance redirects every request except the maintenance page and the favicon.
func maintenance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != MaintenancePage && r.URL.Path != "/favicon.ico" {
			http.Redirect(w, r, MaintenancePage, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// serveStatic serves files from the site directory. Paths are cleaned before
// joining so requests cannot escape the directory.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/index.html"
	}
	full := filepath.Join(s.siteDir, filepath.FromSlash(name))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
	}

	data, err := os.ReadFile(full)
	if err != nil {
		w.Header().Set("Content-Type", "text/html")
		if errors.Is(err, fs.ErrNotExist) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(notFoundHTML))
			return
		}
		s.logger.Error("Static: read failed", "path", name, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(serverErrorHTML))
		return
	}

	w.Header().Set("Content-Type", ContentType(full))
	_, _ = w.Write(data)
}
