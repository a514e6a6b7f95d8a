package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/ports"
	"github.com/ewilliams-labs/soundscope/internal/core/services"
)

// --- Mocks ---

// The handler depends on the concrete *services.Explorer, so tests build a
// real Explorer over mock ports.

type mockDataset struct {
	tracks     []domain.TrackRecord
	averages   []domain.AlbumAverage
	comparison []domain.DecadeComparison
	err        error

	lastCriteria domain.SearchCriteria
}

func (m *mockDataset) SearchTracks(ctx context.Context, artist string, criteria domain.SearchCriteria) ([]domain.TrackRecord, error) {
	m.lastCriteria = criteria
	if m.err != nil {
		return nil, m.err
	}
	return m.tracks, nil
}

func (m *mockDataset) ArtistTracks(ctx context.Context, artist string, years domain.YearRange) ([]domain.TrackRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tracks, nil
}

func (m *mockDataset) AlbumAverages(ctx context.Context, artist string, feature domain.Feature) ([]domain.AlbumAverage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.averages, nil
}

func (m *mockDataset) DecadeComparison(ctx context.Context, artist string, feature domain.Feature) ([]domain.DecadeComparison, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.comparison, nil
}

type mockResolver struct {
	urls map[string]string
}

func (m *mockResolver) ResolvePreview(ctx context.Context, song, artist string) (string, error) {
	if u, ok := m.urls[song]; ok {
		return u, nil
	}
	return "", &ports.LookupFailedError{Song: song, Artist: artist, Reason: "no track found"}
}

func sampleTracks() []domain.TrackRecord {
	return []domain.TrackRecord{
		{
			Song: "Rebel Rebel - 2016 Remaster", Artist: "David Bowie", Album: "Diamond Dogs",
			ReleaseDate: time.Date(1974, 5, 24, 0, 0, 0, 0, time.UTC),
			Features:    domain.AudioFeatures{Energy: 0.89, Valence: 0.81, Danceability: 0.78, Tempo: 126},
		},
		{
			Song: "Rebel Rebel", Artist: "David Bowie", Album: "Diamond Dogs",
			ReleaseDate: time.Date(1974, 5, 24, 0, 0, 0, 0, time.UTC),
			Features:    domain.AudioFeatures{Energy: 0.88, Valence: 0.80, Danceability: 0.77, Tempo: 126},
		},
		{
			Song: "Fame", Artist: "David Bowie", Album: "Young Americans",
			ReleaseDate: time.Date(1975, 3, 7, 0, 0, 0, 0, time.UTC),
			Features:    domain.AudioFeatures{Energy: 0.80, Valence: 0.86, Danceability: 0.81, Tempo: 130.8},
		},
	}
}

func newTestHandler(dataset *mockDataset, resolver ports.PreviewResolver) *Handler {
	svc := services.NewExplorer(dataset, resolver, "David Bowie", 10, nil)
	return NewHandler(svc, nil)
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_HealthCheck(t *testing.T) {
	h := newTestHandler(&mockDataset{}, nil)

	rec := serve(h, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Errorf("expected %s header to be set", RequestIDHeader)
	}
}

func TestHandler_RequestIDIsEchoed(t *testing.T) {
	h := newTestHandler(&mockDataset{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
}

func TestHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		dataset        *mockDataset
		resolver       ports.PreviewResolver
		query          string
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:           "Success: normalized entries",
			dataset:        &mockDataset{tracks: sampleTracks()},
			query:          "from=1970&to=1979&energy_min=0.5",
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"song":"Rebel Rebel"`, `"song":"Fame"`, `"matched":3`},
		},
		{
			name:           "Success: previews degrade per entry",
			dataset:        &mockDataset{tracks: sampleTracks()},
			resolver:       &mockResolver{urls: map[string]string{"Fame": "https://p.scdn.co/mp3-preview/fame"}},
			query:          "previews=true",
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"preview_url":"https://p.scdn.co/mp3-preview/fame"`, `"preview_error":`},
		},
		{
			name:           "Empty: no results is not an error",
			dataset:        &mockDataset{tracks: []domain.TrackRecord{}},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"message":"no results"`},
		},
		{
			name:           "Bad Request: inverted years",
			dataset:        &mockDataset{},
			query:          "from=1990&to=1980",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"code":"INVALID_CRITERIA"`},
		},
		{
			name:           "Bad Request: unknown sort",
			dataset:        &mockDataset{},
			query:          "sort=loudness",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"code":"INVALID_CRITERIA"`},
		},
		{
			name:           "Bad Request: malformed number",
			dataset:        &mockDataset{},
			query:          "valence_max=high",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"valence_max must be a number"},
		},
		{
			name:           "Unavailable: dataset error",
			dataset:        &mockDataset{err: fmt.Errorf("sqlite adapter: %w: no such table", domain.ErrDataUnavailable)},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   []string{`"code":"DATA_UNAVAILABLE"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.dataset, tt.resolver)

			rec := serve(h, "/api/search?"+tt.query)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			for _, want := range tt.expectedBody {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("expected body to contain %q, got %q", want, rec.Body.String())
				}
			}
		})
	}
}

func TestHandler_Search_AppliesFilters(t *testing.T) {
	dataset := &mockDataset{tracks: []domain.TrackRecord{}}
	h := newTestHandler(dataset, nil)

	rec := serve(h, "/api/search?from=1972&to=1975&tempo_min=90&instrumentalness_max=0.2&sort=date")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	c := dataset.lastCriteria
	if c.Years != (domain.YearRange{From: 1972, To: 1975}) {
		t.Errorf("years: got %+v", c.Years)
	}
	if c.SortBy != domain.SortByReleaseDate {
		t.Errorf("sort: got %q", c.SortBy)
	}
	tempo, _ := c.Range(domain.FeatureTempo)
	if tempo.Min != 90 || tempo.Max != 250 {
		t.Errorf("tempo range: got %+v", tempo)
	}
	instr, _ := c.Range(domain.FeatureInstrumentalness)
	if instr.Min != 0 || instr.Max != 0.2 {
		t.Errorf("instrumentalness range: got %+v", instr)
	}
	energy, _ := c.Range(domain.FeatureEnergy)
	if energy.Min != 0.75 || energy.Max != 1 {
		t.Errorf("energy should keep its default, got %+v", energy)
	}
}

func TestHandler_Preview(t *testing.T) {
	resolver := &mockResolver{urls: map[string]string{"Heroes": "https://p.scdn.co/mp3-preview/heroes"}}

	tests := []struct {
		name           string
		resolver       ports.PreviewResolver
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{name: "Success", resolver: resolver, query: "song=Heroes", expectedStatus: http.StatusOK, expectedBody: `"preview_url":"https://p.scdn.co/mp3-preview/heroes"`},
		{name: "Not Found: lookup failed", resolver: resolver, query: "song=Kooks", expectedStatus: http.StatusNotFound, expectedBody: `"code":"LOOKUP_FAILED"`},
		{name: "Not Found: previews disabled", resolver: nil, query: "song=Heroes", expectedStatus: http.StatusNotFound, expectedBody: `"code":"LOOKUP_FAILED"`},
		{name: "Bad Request: missing song", resolver: resolver, query: "", expectedStatus: http.StatusBadRequest, expectedBody: "song is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockDataset{}, tt.resolver)

			rec := serve(h, "/api/preview?"+tt.query)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_AggregateEndpoints(t *testing.T) {
	dataset := &mockDataset{
		tracks:     sampleTracks(),
		averages:   []domain.AlbumAverage{{Album: "Diamond Dogs", Average: 0.72}},
		comparison: []domain.DecadeComparison{{Album: "Diamond Dogs", Year: 1974, Decade: 1970, AlbumAverage: 0.72, DecadeAverage: 0.61}},
	}
	h := newTestHandler(dataset, nil)

	rec := serve(h, "/api/albums?feature=valence")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"feature":"valence"`) {
		t.Errorf("albums: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(h, "/api/decades")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"decade_average":0.61`) {
		t.Errorf("decades: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(h, "/api/tracks?from=1974&to=1974")
	if rec.Code != http.StatusOK {
		t.Fatalf("tracks: %d %s", rec.Code, rec.Body.String())
	}
	var body tracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode tracks: %v", err)
	}
	if body.Artist != "David Bowie" || len(body.Tracks) != 3 {
		t.Errorf("unexpected tracks body: %+v", body)
	}

	rec = serve(h, "/api/albums?feature=loudness")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown feature: expected 400, got %d", rec.Code)
	}
}

func TestHandler_Charts(t *testing.T) {
	full := &mockDataset{
		tracks:     sampleTracks(),
		averages:   []domain.AlbumAverage{{Album: "Diamond Dogs", Average: 0.72}, {Album: "Young Americans", Average: 0.64}},
		comparison: []domain.DecadeComparison{{Album: "Diamond Dogs", Decade: 1970, AlbumAverage: 0.72, DecadeAverage: 0.61}},
	}
	empty := &mockDataset{tracks: []domain.TrackRecord{}}
	broken := &mockDataset{err: fmt.Errorf("sqlite adapter: %w", domain.ErrDataUnavailable)}

	tests := []struct {
		name           string
		dataset        *mockDataset
		path           string
		expectedStatus int
	}{
		{name: "scatter", dataset: full, path: "/charts/scatter.svg?feature=danceability", expectedStatus: http.StatusOK},
		{name: "albums", dataset: full, path: "/charts/albums.svg", expectedStatus: http.StatusOK},
		{name: "decades", dataset: full, path: "/charts/decades.svg?feature=energy", expectedStatus: http.StatusOK},
		{name: "search", dataset: full, path: "/charts/search.svg?sort=tempo", expectedStatus: http.StatusOK},
		{name: "search without rows", dataset: empty, path: "/charts/search.svg", expectedStatus: http.StatusNotFound},
		{name: "scatter unavailable", dataset: broken, path: "/charts/scatter.svg", expectedStatus: http.StatusServiceUnavailable},
		{name: "bad feature", dataset: full, path: "/charts/albums.svg?feature=nope", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.dataset, nil)

			rec := serve(h, tt.path)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus == http.StatusOK {
				if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
					t.Errorf("content type: got %q", ct)
				}
				if !strings.Contains(rec.Body.String(), "<svg") {
					t.Errorf("expected svg body")
				}
			}
		})
	}
}

func TestHandler_Dashboard(t *testing.T) {
	tests := []struct {
		name           string
		dataset        *mockDataset
		resolver       ports.PreviewResolver
		query          string
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:           "results with a preview link",
			dataset:        &mockDataset{tracks: sampleTracks()},
			resolver:       &mockResolver{urls: map[string]string{"Fame": "https://p.scdn.co/mp3-preview/fame"}},
			query:          "previews=on&feature=valence",
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`<a href="https://p.scdn.co/mp3-preview/fame"`,
				"<td>Rebel Rebel</td>",
				"/charts/scatter.svg?feature=valence",
				`<option value="valence" selected>`,
			},
		},
		{
			name:           "no results",
			dataset:        &mockDataset{tracks: []domain.TrackRecord{}},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"no results"},
		},
		{
			name:           "dataset unavailable",
			dataset:        &mockDataset{err: fmt.Errorf("sqlite adapter: %w", domain.ErrDataUnavailable)},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   []string{`class="error"`, "data unavailable"},
		},
		{
			name:           "invalid filters",
			dataset:        &mockDataset{},
			query:          "from=2000&to=1990",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"inverted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.dataset, tt.resolver)

			rec := serve(h, "/?"+tt.query)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("content type: got %q", ct)
			}
			for _, want := range tt.expectedBody {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("expected body to contain %q", want)
				}
			}
		})
	}
}

func TestChartURLs(t *testing.T) {
	q := url.Values{"from": {"1970"}, "to": {"1979"}, "previews": {"true"}, "sort": {"tempo"}}

	got := chartURLs(q, domain.FeatureTempo)

	if string(got["albums"]) != "/charts/albums.svg?feature=tempo" {
		t.Errorf("albums url: %s", got["albums"])
	}
	if strings.Contains(string(got["search"]), "previews") {
		t.Errorf("search chart should not resolve previews: %s", got["search"])
	}
	if string(got["scatter"]) != "/charts/scatter.svg?feature=tempo&from=1970&to=1979" {
		t.Errorf("scatter url: %s", got["scatter"])
	}
}
