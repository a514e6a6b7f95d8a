package domain

import "time"

// AudioFeatures holds the acoustic descriptors Spotify computes for a track.
type AudioFeatures struct {
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Danceability     float64 `json:"danceability"`
	Instrumentalness float64 `json:"instrumentalness"`
	Tempo            float64 `json:"tempo"`
}

// Value returns the value of a single feature. Unknown features yield 0.
func (f AudioFeatures) Value(feature Feature) float64 {
	switch feature {
	case FeatureEnergy:
		return f.Energy
	case FeatureValence:
		return f.Valence
	case FeatureDanceability:
		return f.Danceability
	case FeatureInstrumentalness:
		return f.Instrumentalness
	case FeatureTempo:
		return f.Tempo
	default:
		return 0
	}
}

// TrackRecord is one row of the acoustic features dataset.
type TrackRecord struct {
	Song        string        `json:"song"`
	Artist      string        `json:"artist"`
	Album       string        `json:"album"`
	ReleaseDate time.Time     `json:"release_date"`
	Features    AudioFeatures `json:"features"`
}

// Year returns the release year, or 0 when the date is unknown.
func (t TrackRecord) Year() int {
	if t.ReleaseDate.IsZero() {
		return 0
	}
	return t.ReleaseDate.Year()
}

// AlbumAverage is the mean of one feature across an album's tracks.
type AlbumAverage struct {
	Album       string    `json:"album"`
	ReleaseDate time.Time `json:"release_date"`
	Average     float64   `json:"average"`
}

// DecadeComparison sets an album's average next to the average of every
// track in the dataset released in the same decade.
type DecadeComparison struct {
	Album         string    `json:"album"`
	ReleaseDate   time.Time `json:"release_date"`
	Year          int       `json:"year"`
	Decade        int       `json:"decade"`
	AlbumAverage  float64   `json:"album_average"`
	DecadeAverage float64   `json:"decade_average"`
}
