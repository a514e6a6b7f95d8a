package domain

import "math"

// ChartFeatures are the features drawn by the search results chart.
var ChartFeatures = []Feature{
	FeatureEnergy,
	FeatureValence,
	FeatureDanceability,
	FeatureInstrumentalness,
}

// ChartRow is the minimal projection of a track that a bar chart needs.
type ChartRow struct {
	Song   string              `json:"song"`
	Values map[Feature]float64 `json:"values"`
}

// ProjectChart maps tracks to chart rows. With no features given it uses
// ChartFeatures.
func ProjectChart(tracks []TrackRecord, features ...Feature) []ChartRow {
	if len(features) == 0 {
		features = ChartFeatures
	}
	rows := make([]ChartRow, 0, len(tracks))
	for _, t := range tracks {
		values := make(map[Feature]float64, len(features))
		for _, f := range features {
			values[f] = t.Features.Value(f)
		}
		rows = append(rows, ChartRow{Song: t.Song, Values: values})
	}
	return rows
}

// ScatterPoint is one song on the album scatter chart.
type ScatterPoint struct {
	Song          string  `json:"song"`
	Album         string  `json:"album"`
	Year          float64 `json:"year"`
	Value         float64 `json:"value"`
	ValenceBucket int     `json:"valence_bucket"`
	Tempo         float64 `json:"tempo"`
}

// ProjectScatter maps tracks to scatter points for one feature. The x value
// is the fractional release year; tracks without a date are skipped.
func ProjectScatter(tracks []TrackRecord, feature Feature) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(tracks))
	for _, t := range tracks {
		if t.ReleaseDate.IsZero() {
			continue
		}
		year := float64(t.ReleaseDate.Year()) + float64(t.ReleaseDate.YearDay()-1)/366.0
		points = append(points, ScatterPoint{
			Song:          t.Song,
			Album:         t.Album,
			Year:          year,
			Value:         RoundTo2(t.Features.Value(feature)),
			ValenceBucket: int(t.Features.Valence * 10),
			Tempo:         t.Features.Tempo,
		})
	}
	return points
}

// RoundTo2 rounds to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
