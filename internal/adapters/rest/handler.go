// Package rest exposes the explorer over HTTP: a JSON API, SVG charts and
// a server-rendered dashboard.
package rest

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/core/services"
	"github.com/ewilliams-labs/soundscope/internal/logger"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc       *services.Explorer // Dependency on the Core Service
	router    *http.ServeMux     // Standard library router
	handler   http.Handler
	logger    *zap.Logger
	dashboard *template.Template
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Explorer, log *zap.Logger) *Handler {
	h := &Handler{
		svc:       svc,
		router:    http.NewServeMux(),
		logger:    logger.OrNop(log),
		dashboard: dashboardTemplate,
	}

	// Register Routes
	h.routes()
	h.handler = h.withRequestID(h.router)

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It passes the request through the middleware chain to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Dashboard
	h.router.HandleFunc("GET /{$}", h.Dashboard)
	// Data
	h.router.HandleFunc("GET /api/tracks", h.Tracks)
	h.router.HandleFunc("GET /api/search", h.Search)
	h.router.HandleFunc("GET /api/albums", h.AlbumAverages)
	h.router.HandleFunc("GET /api/decades", h.DecadeComparison)
	h.router.HandleFunc("GET /api/preview", h.Preview)
	// Charts
	h.router.HandleFunc("GET /charts/scatter.svg", h.ScatterChart)
	h.router.HandleFunc("GET /charts/albums.svg", h.AlbumsChart)
	h.router.HandleFunc("GET /charts/decades.svg", h.DecadesChart)
	h.router.HandleFunc("GET /charts/search.svg", h.SearchChart)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "soundscope is live"})
}
