package domain

import (
	"fmt"
	"strings"
)

// Feature names an acoustic descriptor that can be filtered, sorted or charted.
type Feature string

const (
	FeatureEnergy           Feature = "energy"
	FeatureValence          Feature = "valence"
	FeatureDanceability     Feature = "danceability"
	FeatureInstrumentalness Feature = "instrumentalness"
	FeatureTempo            Feature = "tempo"
)

// Features lists every supported feature in display order.
var Features = []Feature{
	FeatureEnergy,
	FeatureValence,
	FeatureDanceability,
	FeatureInstrumentalness,
	FeatureTempo,
}

// ParseFeature resolves a feature name, ignoring case and surrounding space.
func ParseFeature(name string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: unknown feature %q", ErrInvalidCriteria, name)
	}
	return f, nil
}

// Valid reports whether f is one of Features.
func (f Feature) Valid() bool {
	for _, known := range Features {
		if f == known {
			return true
		}
	}
	return false
}

// Bounds returns the inclusive value domain of the feature.
func (f Feature) Bounds() (float64, float64) {
	if f == FeatureTempo {
		return 0, 250
	}
	return 0, 1
}

func (f Feature) String() string {
	return string(f)
}

// SortKey orders search results. It is either a Feature or SortByReleaseDate.
type SortKey string

// SortByReleaseDate orders results by release date.
const SortByReleaseDate SortKey = "release_date"

// ParseSortKey accepts any feature name, "release_date" or "date".
func ParseSortKey(name string) (SortKey, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "date" || key == string(SortByReleaseDate) {
		return SortByReleaseDate, nil
	}
	f, err := ParseFeature(key)
	if err != nil {
		return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, name)
	}
	return SortKey(f), nil
}

// Valid reports whether k names a feature or the release date.
func (k SortKey) Valid() bool {
	return k == SortByReleaseDate || Feature(k).Valid()
}
