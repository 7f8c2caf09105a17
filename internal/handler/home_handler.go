package handler

import (
	"net/http"
)

// HomeHandler serves the public landing page and health check.
type HomeHandler struct {
	renderer *Renderer
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(renderer *Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// Home handles GET /.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "home", View{Title: "Food Ordering"})
}

// Health handles GET /health.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
