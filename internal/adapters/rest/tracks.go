package rest

import (
	"net/http"
	"strings"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/services"
)

const noResultsMessage = "no results"

type searchResponse struct {
	services.SearchResult
	Message string `json:"message,omitempty"`
}

type tracksResponse struct {
	Artist string               `json:"artist"`
	Years  domain.YearRange     `json:"years"`
	Tracks []domain.TrackRecord `json:"tracks"`
}

type previewResponse struct {
	Song       string `json:"song"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url"`
}

// Tracks handles GET /api/tracks
func (h *Handler) Tracks(w http.ResponseWriter, r *http.Request) {
	years, err := parseYears(r.URL.Query(), allYears)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	tracks, err := h.svc.Tracks(r.Context(), years)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tracksResponse{Artist: h.svc.Artist(), Years: years, Tracks: tracks})
}

// Search handles GET /api/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// 1. Parse the filters
	criteria, err := parseCriteria(q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	withPreviews, err := parseBool(q, "previews")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// 2. Call the Service
	result, err := h.svc.Search(r.Context(), criteria, withPreviews)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// 3. An empty result is a normal answer, not an error
	resp := searchResponse{SearchResult: result}
	if result.Empty() {
		resp.Message = noResultsMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// AlbumAverages handles GET /api/albums
func (h *Handler) AlbumAverages(w http.ResponseWriter, r *http.Request) {
	feature, err := parseFeature(r.URL.Query(), domain.FeatureEnergy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	averages, err := h.svc.AlbumAverages(r.Context(), feature)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feature": feature, "albums": averages})
}

// DecadeComparison handles GET /api/decades
func (h *Handler) DecadeComparison(w http.ResponseWriter, r *http.Request) {
	feature, err := parseFeature(r.URL.Query(), domain.FeatureEnergy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	comparison, err := h.svc.DecadeComparison(r.Context(), feature)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feature": feature, "albums": comparison})
}

// Preview handles GET /api/preview
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	song := strings.TrimSpace(r.URL.Query().Get("song"))
	if song == "" {
		writeError(w, http.StatusBadRequest, "song is required")
		return
	}

	url, err := h.svc.Preview(r.Context(), song)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{Song: song, Artist: h.svc.Artist(), PreviewURL: url})
}
