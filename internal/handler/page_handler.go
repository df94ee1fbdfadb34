package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// PageHandler serves the storefront pages. Built frontend assets are served
// from pagesDir when present; otherwise each route gets a minimal HTML shell
// so the routing behavior stays observable without the asset bundle.
type PageHandler struct {
	pagesDir string
}

func NewPageHandler(pagesDir string) *PageHandler {
	return &PageHandler{pagesDir: strings.TrimSpace(pagesDir)}
}

func (h *PageHandler) Serve(page string, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.pagesDir != "" {
			path := filepath.Join(h.pagesDir, page+".html")
			if _, err := os.Stat(path); err == nil {
				http.ServeFile(w, r, path)
				return
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `<!doctype html>
<html>
  <head><meta charset="utf-8" /><title>%s</title></head>
  <body><div id="app" data-page=%q></div><script src="/static/app.js"></script></body>
</html>`, title, page)
	}
}

func (h *PageHandler) Static() http.Handler {
	dir := h.pagesDir
	if dir == "" {
		dir = "web"
	}

	return http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(dir, "static"))))
}
