package ports

import (
	"context"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// TrackDataset is the read-only acoustic features dataset.
// Implementations wrap connection and query failures in domain.ErrDataUnavailable;
// a query that matches nothing returns an empty slice and a nil error.
type TrackDataset interface {
	SearchTracks(ctx context.Context, artist string, criteria domain.SearchCriteria) ([]domain.TrackRecord, error)
	ArtistTracks(ctx context.Context, artist string, years domain.YearRange) ([]domain.TrackRecord, error)
	AlbumAverages(ctx context.Context, artist string, feature domain.Feature) ([]domain.AlbumAverage, error)
	DecadeComparison(ctx context.Context, artist string, feature domain.Feature) ([]domain.DecadeComparison, error)
}
