package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/ports"
	"github.com/ewilliams-labs/soundscope/internal/logger"
)

// SearchEntry is one normalized search row, with a preview link when one
// was resolved.
type SearchEntry struct {
	domain.TrackRecord
	PreviewURL   string `json:"preview_url,omitempty"`
	PreviewError string `json:"preview_error,omitempty"`
}

// HasPreview reports whether the entry carries a playable link.
func (e SearchEntry) HasPreview() bool {
	return e.PreviewURL != ""
}

// SearchResult is everything one search interaction renders.
type SearchResult struct {
	Criteria domain.SearchCriteria `json:"criteria"`
	// Matched counts the rows that satisfied the filters before truncation.
	Matched int               `json:"matched"`
	Entries []SearchEntry     `json:"entries"`
	Chart   []domain.ChartRow `json:"chart"`
}

// Empty reports a search that matched nothing. It is not an error.
func (r SearchResult) Empty() bool {
	return len(r.Entries) == 0
}

// Explorer runs the dashboard interactions over the dataset for one artist.
type Explorer struct {
	dataset  ports.TrackDataset
	previews ports.PreviewResolver
	artist   string
	topK     int
	logger   *zap.Logger
}

// NewExplorer constructs an Explorer. previews may be nil, in which case
// every search entry is plain. A non-positive topK falls back to domain.DefaultTopK.
func NewExplorer(dataset ports.TrackDataset, previews ports.PreviewResolver, artist string, topK int, log *zap.Logger) *Explorer {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Explorer{
		dataset:  dataset,
		previews: previews,
		artist:   artist,
		topK:     topK,
		logger:   logger.OrNop(log),
	}
}

// Artist returns the artist every query is scoped to.
func (e *Explorer) Artist() string {
	return e.artist
}

// PreviewsEnabled reports whether a preview resolver is configured.
func (e *Explorer) PreviewsEnabled() bool {
	return e.previews != nil
}

// Search validates criteria, queries the dataset, keeps the top-K ranked rows,
// normalizes titles and optionally resolves previews for what remains.
// Truncation happens before deduplication, so fewer than top-K entries may
// come back.
func (e *Explorer) Search(ctx context.Context, criteria domain.SearchCriteria, withPreviews bool) (SearchResult, error) {
	if err := criteria.Validate(); err != nil {
		return SearchResult{}, fmt.Errorf("service: %w", err)
	}

	rows, err := e.dataset.SearchTracks(ctx, e.artist, criteria)
	if err != nil {
		return SearchResult{}, fmt.Errorf("service: failed to search tracks: %w", err)
	}

	matched := len(rows)
	if len(rows) > e.topK {
		rows = rows[:e.topK]
	}
	tracks := domain.NormalizeTracks(rows)

	var entries []SearchEntry
	if withPreviews {
		entries = e.ResolvePreviews(ctx, tracks)
	} else {
		entries = plainEntries(tracks)
	}

	e.logger.Info("search completed",
		zap.String("artist", e.artist),
		zap.String("sort", string(criteria.SortBy)),
		zap.Int("matched", matched),
		zap.Int("entries", len(entries)),
		zap.Bool("previews", withPreviews),
	)

	return SearchResult{
		Criteria: criteria,
		Matched:  matched,
		Entries:  entries,
		Chart:    domain.ProjectChart(tracks),
	}, nil
}

// ResolvePreviews looks up a preview for each track in order, one at a time.
// A failed lookup degrades that entry to plain and the rest continue.
func (e *Explorer) ResolvePreviews(ctx context.Context, tracks []domain.TrackRecord) []SearchEntry {
	if e.previews == nil {
		return plainEntries(tracks)
	}

	entries := make([]SearchEntry, 0, len(tracks))
	failed := 0
	for _, t := range tracks {
		entry := SearchEntry{TrackRecord: t}
		url, err := e.previews.ResolvePreview(ctx, t.Song, e.artist)
		if err != nil {
			failed++
			entry.PreviewError = err.Error()
		} else {
			entry.PreviewURL = url
		}
		entries = append(entries, entry)
	}

	if failed > 0 {
		e.logger.Warn("some previews could not be resolved",
			zap.Int("failed", failed),
			zap.Int("total", len(tracks)),
		)
	}
	return entries
}

// Preview resolves a single song for the configured artist.
func (e *Explorer) Preview(ctx context.Context, song string) (string, error) {
	if e.previews == nil {
		return "", fmt.Errorf("service: %w", &ports.LookupFailedError{
			Song:   song,
			Artist: e.artist,
			Reason: "preview resolution is not configured",
		})
	}
	url, err := e.previews.ResolvePreview(ctx, song, e.artist)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}
	return url, nil
}

// Tracks returns every row for the artist released within years.
func (e *Explorer) Tracks(ctx context.Context, years domain.YearRange) ([]domain.TrackRecord, error) {
	if years.From > years.To {
		return nil, fmt.Errorf("service: %w: year range %d-%d is inverted", domain.ErrInvalidCriteria, years.From, years.To)
	}
	tracks, err := e.dataset.ArtistTracks(ctx, e.artist, years)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load tracks: %w", err)
	}
	return tracks, nil
}

// Scatter projects the artist's tracks within years onto one feature.
func (e *Explorer) Scatter(ctx context.Context, feature domain.Feature, years domain.YearRange) ([]domain.ScatterPoint, error) {
	if !feature.Valid() {
		return nil, fmt.Errorf("service: %w: unknown feature %q", domain.ErrInvalidCriteria, feature)
	}
	tracks, err := e.Tracks(ctx, years)
	if err != nil {
		return nil, err
	}
	return domain.ProjectScatter(tracks, feature), nil
}

// AlbumAverages returns the per-album mean of feature, oldest album first.
func (e *Explorer) AlbumAverages(ctx context.Context, feature domain.Feature) ([]domain.AlbumAverage, error) {
	if !feature.Valid() {
		return nil, fmt.Errorf("service: %w: unknown feature %q", domain.ErrInvalidCriteria, feature)
	}
	averages, err := e.dataset.AlbumAverages(ctx, e.artist, feature)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load album averages: %w", err)
	}
	return averages, nil
}

// DecadeComparison sets each album's mean of feature against its decade's.
func (e *Explorer) DecadeComparison(ctx context.Context, feature domain.Feature) ([]domain.DecadeComparison, error) {
	if !feature.Valid() {
		return nil, fmt.Errorf("service: %w: unknown feature %q", domain.ErrInvalidCriteria, feature)
	}
	comparison, err := e.dataset.DecadeComparison(ctx, e.artist, feature)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load decade comparison: %w", err)
	}
	return comparison, nil
}

func plainEntries(tracks []domain.TrackRecord) []SearchEntry {
	entries := make([]SearchEntry, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, SearchEntry{TrackRecord: t})
	}
	return entries
}
