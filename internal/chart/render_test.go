package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

func TestRender_EmptyInput(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, RenderScatter(&buf, domain.FeatureEnergy, nil), ErrNoData)
	assert.ErrorIs(t, RenderBars(&buf, "empty", nil), ErrNoData)
	assert.ErrorIs(t, RenderComparison(&buf, "empty", []domain.DecadeComparison{}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestRenderScatter(t *testing.T) {
	tests := []struct {
		name    string
		feature domain.Feature
		points  []domain.ScatterPoint
	}{
		{
			name:    "single point",
			feature: domain.FeatureEnergy,
			points:  []domain.ScatterPoint{{Song: "Heroes", Album: "Heroes", Year: 1977.78, Value: 0.76, ValenceBucket: 4, Tempo: 112}},
		},
		{
			name:    "several buckets",
			feature: domain.FeatureDanceability,
			points: []domain.ScatterPoint{
				{Song: "Fame", Year: 1975.2, Value: 0.81, ValenceBucket: 8, Tempo: 130},
				{Song: "Heroes", Year: 1977.8, Value: 0.49, ValenceBucket: 4, Tempo: 112},
				{Song: "Full valence", Year: 1983.3, Value: 0.7, ValenceBucket: 10, Tempo: 114},
			},
		},
		{
			name:    "tempo axis",
			feature: domain.FeatureTempo,
			points:  []domain.ScatterPoint{{Song: "Starman", Year: 1972.5, Value: 98.9, ValenceBucket: 6, Tempo: 98.9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderScatter(&buf, tt.feature, tt.points))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderBars(t *testing.T) {
	averages := []domain.AlbumAverage{
		{Album: "Hunky Dory", Average: 0.51},
		{Album: "The Rise and Fall of Ziggy Stardust and the Spiders from Mars", Average: 0.82},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBars(&buf, "energy by album", AlbumBars(averages)))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Hunky Dory")

	buf.Reset()
	rows := domain.ProjectChart([]domain.TrackRecord{
		{Song: "Fame", Features: domain.AudioFeatures{Tempo: 130.8}},
	}, domain.FeatureTempo)
	require.NoError(t, RenderBars(&buf, "tempo", SearchBars(rows, domain.FeatureTempo)))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderComparison(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.DecadeComparison
	}{
		{
			name: "single album",
			rows: []domain.DecadeComparison{{Album: "Heroes", Decade: 1970, AlbumAverage: 0.7, DecadeAverage: 0.6}},
		},
		{
			name: "several albums",
			rows: []domain.DecadeComparison{
				{Album: "Hunky Dory", Decade: 1970, AlbumAverage: 0.51, DecadeAverage: 0.73},
				{Album: "Let's Dance", Decade: 1980, AlbumAverage: 0.82, DecadeAverage: 0.82},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderComparison(&buf, "energy vs decade", tt.rows))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0, clampBucket(-1))
	assert.Equal(t, 9, clampBucket(10))
	assert.Equal(t, 1.0, axisMax(0.4))
	assert.Equal(t, 140.0, axisMax(130.8))
	assert.Equal(t, 2.0, tempoDotWidth(-5))
	assert.Equal(t, 10.0, tempoDotWidth(300))
	assert.Equal(t, "Heroes", shorten("  Heroes "))
	assert.Len(t, []rune(shorten("The Rise and Fall of Ziggy Stardust and the Spiders from Mars")), labelLimit)
	assert.Equal(t, "1977", yearFormatter(1977.78))
}
