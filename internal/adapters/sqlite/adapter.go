// Package sqlite provides the read-only SQLite implementation of the track dataset port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/ports"
	"github.com/ewilliams-labs/soundscope/internal/logger"
)

// dateLayouts are tried in order when parsing the dataset's date column.
// Dates are ISO; the SQL year expression reads the same leading YYYY.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
}

// Adapter implements ports.TrackDataset for SQLite.
type Adapter struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

var _ ports.TrackDataset = (*Adapter)(nil)

type options struct {
	table    string
	readOnly bool
	logger   *zap.Logger
}

// Option configures an Adapter.
type Option func(*options)

// WithTable overrides the relation name. It must be a plain identifier.
func WithTable(name string) Option {
	return func(o *options) { o.table = name }
}

// WithReadOnly controls whether the file is opened with mode=ro. Defaults to true.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) { o.readOnly = readOnly }
}

// WithLogger sets the logger used for query diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewAdapter opens the dataset at storagePath and verifies the connection.
// Any failure is reported as domain.ErrDataUnavailable.
func NewAdapter(storagePath string, opts ...Option) (*Adapter, error) {
	o := options{table: DefaultTable, readOnly: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !isIdentifier(o.table) {
		return nil, fmt.Errorf("sqlite adapter: invalid table name %q", o.table)
	}

	db, err := sql.Open("sqlite3", dsn(storagePath, o.readOnly))
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: open %s: %w", domain.ErrDataUnavailable, storagePath, err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite adapter: %w: ping %s: %w", domain.ErrDataUnavailable, storagePath, err)
	}

	return &Adapter{db: db, table: o.table, logger: logger.OrNop(o.logger)}, nil
}

// Close releases the connection pool.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// SearchTracks runs the filtered search for an artist. It returns every
// matching row in sort order; truncation is the caller's job.
func (a *Adapter) SearchTracks(ctx context.Context, artist string, criteria domain.SearchCriteria) ([]domain.TrackRecord, error) {
	query, args, err := BuildSearchQuery(a.table, artist, criteria)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w", err)
	}
	a.logger.Debug("search tracks", zap.String("artist", artist), zap.Any("args", args))
	return a.queryTracks(ctx, query, args)
}

// ArtistTracks returns every row for an artist released within years, newest first.
func (a *Adapter) ArtistTracks(ctx context.Context, artist string, years domain.YearRange) ([]domain.TrackRecord, error) {
	query, args := buildArtistTracksQuery(a.table, artist, years)
	return a.queryTracks(ctx, query, args)
}

// AlbumAverages returns the mean of a feature per album, oldest album first.
func (a *Adapter) AlbumAverages(ctx context.Context, artist string, feature domain.Feature) ([]domain.AlbumAverage, error) {
	query, args, err := buildAlbumAveragesQuery(a.table, artist, feature)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: load album averages: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	averages := []domain.AlbumAverage{}
	for rows.Next() {
		var avg domain.AlbumAverage
		var date string
		if err := rows.Scan(&avg.Album, &date, &avg.Average); err != nil {
			return nil, fmt.Errorf("sqlite adapter: %w: scan album average: %w", domain.ErrDataUnavailable, err)
		}
		avg.ReleaseDate = parseDate(date)
		avg.Average = domain.RoundTo2(avg.Average)
		averages = append(averages, avg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: iterate album averages: %w", domain.ErrDataUnavailable, err)
	}
	return averages, nil
}

// DecadeComparison returns each album's average alongside the dataset-wide
// average for the decade the album was released in.
func (a *Adapter) DecadeComparison(ctx context.Context, artist string, feature domain.Feature) ([]domain.DecadeComparison, error) {
	query, args, err := buildDecadeComparisonQuery(a.table, artist, feature)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: load decade comparison: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	out := []domain.DecadeComparison{}
	for rows.Next() {
		var c domain.DecadeComparison
		var date string
		var year, decade sql.NullInt64
		if err := rows.Scan(&c.Album, &date, &year, &decade, &c.AlbumAverage, &c.DecadeAverage); err != nil {
			return nil, fmt.Errorf("sqlite adapter: %w: scan decade comparison: %w", domain.ErrDataUnavailable, err)
		}
		c.ReleaseDate = parseDate(date)
		if year.Valid {
			c.Year = int(year.Int64)
		}
		if decade.Valid {
			c.Decade = int(decade.Int64) * 10
		}
		c.AlbumAverage = domain.RoundTo2(c.AlbumAverage)
		c.DecadeAverage = domain.RoundTo2(c.DecadeAverage)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: iterate decade comparison: %w", domain.ErrDataUnavailable, err)
	}
	return out, nil
}

func (a *Adapter) queryTracks(ctx context.Context, query string, args []any) ([]domain.TrackRecord, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: query tracks: %w", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	tracks := []domain.TrackRecord{}
	for rows.Next() {
		var t domain.TrackRecord
		var date string
		if err := rows.Scan(
			&t.Song,
			&t.Artist,
			&t.Album,
			&date,
			&t.Features.Energy,
			&t.Features.Valence,
			&t.Features.Danceability,
			&t.Features.Instrumentalness,
			&t.Features.Tempo,
		); err != nil {
			return nil, fmt.Errorf("sqlite adapter: %w: scan track: %w", domain.ErrDataUnavailable, err)
		}
		t.ReleaseDate = parseDate(date)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: iterate tracks: %w", domain.ErrDataUnavailable, err)
	}
	return tracks, nil
}

func dsn(path string, readOnly bool) string {
	if path == ":memory:" || !readOnly {
		return path
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?mode=ro"
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
