package rest

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"num": formatNumber,
	}).ParseFS(templateFS, "templates/dashboard.html"),
)

type rangeField struct {
	Feature domain.Feature
	Min     float64
	Max     float64
	Step    float64
	Active  bool
}

type dashboardView struct {
	Artist          string
	Criteria        domain.SearchCriteria
	Ranges          []rangeField
	Features        []domain.Feature
	ChartFeature    domain.Feature
	SortKeys        []domain.SortKey
	WithPreviews    bool
	PreviewsEnabled bool
	Result          *services.SearchResult
	Message         string
	Error           string
	Charts          map[string]template.URL
}

// Dashboard handles GET /
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := dashboardView{
		Artist:          h.svc.Artist(),
		Criteria:        domain.DefaultCriteria(),
		Features:        domain.Features,
		ChartFeature:    domain.FeatureEnergy,
		SortKeys:        sortKeys(),
		PreviewsEnabled: h.svc.PreviewsEnabled(),
	}
	status := http.StatusOK

	criteria, err := parseCriteria(q)
	if err == nil {
		view.Criteria = criteria
		view.ChartFeature, err = parseFeature(q, domain.FeatureEnergy)
	}
	if err == nil {
		view.WithPreviews, err = parseBool(q, "previews")
	}

	if err == nil {
		var result services.SearchResult
		result, err = h.svc.Search(r.Context(), criteria, view.WithPreviews)
		if err == nil {
			view.Result = &result
			if result.Empty() {
				view.Message = noResultsMessage
			}
		}
	}
	if err != nil {
		status, _ = statusFor(err)
		view.Error = err.Error()
	}

	view.Ranges = rangeFields(view.Criteria)
	view.Charts = chartURLs(q, view.ChartFeature)

	var buf bytes.Buffer
	if err := h.dashboard.Execute(&buf, view); err != nil {
		h.logger.Error("render dashboard", zap.String("request_id", RequestIDFromContext(r.Context())), zap.Error(err))
		writeErrorWithCode(w, http.StatusInternalServerError, "failed to render dashboard", errCodeInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func rangeFields(c domain.SearchCriteria) []rangeField {
	fields := make([]rangeField, 0, len(domain.Features))
	for _, f := range domain.Features {
		lo, hi := f.Bounds()
		field := rangeField{Feature: f, Min: lo, Max: hi, Step: 0.01}
		if f == domain.FeatureTempo {
			field.Step = 1
		}
		if r, ok := c.Range(f); ok {
			field.Min, field.Max, field.Active = r.Min, r.Max, true
		}
		fields = append(fields, field)
	}
	return fields
}

func sortKeys() []domain.SortKey {
	keys := make([]domain.SortKey, 0, len(domain.Features)+1)
	for _, f := range domain.Features {
		keys = append(keys, domain.SortKey(f))
	}
	return append(keys, domain.SortByReleaseDate)
}

// chartURLs builds the image sources for the dashboard. The search chart
// reuses the page's filters.
func chartURLs(q url.Values, feature domain.Feature) map[string]template.URL {
	featureOnly := url.Values{"feature": {string(feature)}}.Encode()

	search := url.Values{}
	for k, v := range q {
		if k != "previews" {
			search[k] = v
		}
	}

	scatter := url.Values{"feature": {string(feature)}}
	for _, k := range []string{"from", "to"} {
		if v := q.Get(k); v != "" {
			scatter.Set(k, v)
		}
	}

	return map[string]template.URL{
		"scatter": template.URL("/charts/scatter.svg?" + scatter.Encode()),
		"albums":  template.URL("/charts/albums.svg?" + featureOnly),
		"decades": template.URL("/charts/decades.svg?" + featureOnly),
		"search":  template.URL("/charts/search.svg?" + search.Encode()),
	}
}

func tracksOf(entries []services.SearchEntry) []domain.TrackRecord {
	tracks := make([]domain.TrackRecord, 0, len(entries))
	for _, e := range entries {
		tracks = append(tracks, e.TrackRecord)
	}
	return tracks
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
