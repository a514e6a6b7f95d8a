package domain

import "fmt"

// DefaultTopK is how many ranked rows a search keeps before deduplication.
const DefaultTopK = 10

// YearRange is an inclusive range of release years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// FeatureRange restricts one feature to an inclusive value range.
type FeatureRange struct {
	Feature Feature `json:"feature"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Contains reports whether the track's value for the feature lies in range.
func (r FeatureRange) Contains(features AudioFeatures) bool {
	v := features.Value(r.Feature)
	return v >= r.Min && v <= r.Max
}

// SearchCriteria is the full filter set of one search.
type SearchCriteria struct {
	Years  YearRange      `json:"years"`
	Ranges []FeatureRange `json:"ranges"`
	SortBy SortKey        `json:"sort_by"`
}

// DefaultCriteria returns the filters the search dashboard opens with.
func DefaultCriteria() SearchCriteria {
	return SearchCriteria{
		Years: YearRange{From: 1970, To: 1979},
		Ranges: []FeatureRange{
			{Feature: FeatureEnergy, Min: 0.75, Max: 1.0},
			{Feature: FeatureValence, Min: 0.75, Max: 1.0},
			{Feature: FeatureDanceability, Min: 0.75, Max: 1.0},
			{Feature: FeatureInstrumentalness, Min: 0.0, Max: 0.5},
			{Feature: FeatureTempo, Min: 100, Max: 250},
		},
		SortBy: SortKey(FeatureEnergy),
	}
}

// Range returns the range set for feature, if any.
func (c SearchCriteria) Range(feature Feature) (FeatureRange, bool) {
	for _, r := range c.Ranges {
		if r.Feature == feature {
			return r, true
		}
	}
	return FeatureRange{}, false
}

// WithRange returns a copy of c with the range for r.Feature replaced or added.
func (c SearchCriteria) WithRange(r FeatureRange) SearchCriteria {
	ranges := make([]FeatureRange, 0, len(c.Ranges)+1)
	replaced := false
	for _, existing := range c.Ranges {
		if existing.Feature == r.Feature {
			ranges = append(ranges, r)
			replaced = true
			continue
		}
		ranges = append(ranges, existing)
	}
	if !replaced {
		ranges = append(ranges, r)
	}
	c.Ranges = ranges
	return c
}

// Validate checks ranges are well formed and the sort key is known.
func (c SearchCriteria) Validate() error {
	if c.Years.From > c.Years.To {
		return fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidCriteria, c.Years.From, c.Years.To)
	}
	seen := make(map[Feature]struct{}, len(c.Ranges))
	for _, r := range c.Ranges {
		if !r.Feature.Valid() {
			return fmt.Errorf("%w: unknown feature %q", ErrInvalidCriteria, r.Feature)
		}
		if _, dup := seen[r.Feature]; dup {
			return fmt.Errorf("%w: feature %q filtered twice", ErrInvalidCriteria, r.Feature)
		}
		seen[r.Feature] = struct{}{}
		if r.Min > r.Max {
			return fmt.Errorf("%w: %s range %.2f-%.2f is inverted", ErrInvalidCriteria, r.Feature, r.Min, r.Max)
		}
	}
	if !c.SortBy.Valid() {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, c.SortBy)
	}
	return nil
}

// Matches reports whether a track satisfies every filter in c. The dataset
// adapter applies the same predicate in SQL; this form serves in-memory
// callers and tests.
func (c SearchCriteria) Matches(t TrackRecord) bool {
	if !c.Years.Contains(t.Year()) {
		return false
	}
	for _, r := range c.Ranges {
		if !r.Contains(t.Features) {
			return false
		}
	}
	return true
}
