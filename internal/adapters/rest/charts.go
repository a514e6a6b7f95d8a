package rest

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/ewilliams-labs/soundscope/internal/chart"
	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// ScatterChart handles GET /charts/scatter.svg
func (h *Handler) ScatterChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	feature, err := parseFeature(q, domain.FeatureEnergy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	years, err := parseYears(q, scatterYears)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	points, err := h.svc.Scatter(r.Context(), feature, years)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	h.writeSVG(w, r, &buf, chart.RenderScatter(&buf, feature, points))
}

// AlbumsChart handles GET /charts/albums.svg
func (h *Handler) AlbumsChart(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	title := fmt.Sprintf("Average %s by album", feature)
	h.writeSVG(w, r, &buf, chart.RenderBars(&buf, title, chart.AlbumBars(averages)))
}

// DecadesChart handles GET /charts/decades.svg
func (h *Handler) DecadesChart(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	title := fmt.Sprintf("Album %s against the decade average", feature)
	h.writeSVG(w, r, &buf, chart.RenderComparison(&buf, title, comparison))
}

// SearchChart handles GET /charts/search.svg
func (h *Handler) SearchChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := parseCriteria(q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	feature, err := parseFeature(q, chartFeatureFor(criteria))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.svc.Search(r.Context(), criteria, false)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	rows := domain.ProjectChart(tracksOf(result.Entries), feature)
	title := fmt.Sprintf("Top results by %s", feature)
	h.writeSVG(w, r, &buf, chart.RenderBars(&buf, title, chart.SearchBars(rows, feature)))
}

// writeSVG sends a rendered chart, or maps the render error.
func (h *Handler) writeSVG(w http.ResponseWriter, r *http.Request, buf *bytes.Buffer, renderErr error) {
	if renderErr != nil {
		h.writeServiceError(w, r, renderErr)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
