package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// scatterYears is the window the scatter chart opens on.
var scatterYears = domain.YearRange{From: 1969, To: 2000}

// allYears bounds raw track listings when no range is given.
var allYears = domain.YearRange{From: 1900, To: 2100}

func parseInt(q url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidCriteria, key)
	}
	return v, nil
}

func parseFloat(q url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidCriteria, key)
	}
	return v, nil
}

func parseBool(q url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return false, nil
	}
	if raw == "on" {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidCriteria, key)
	}
	return v, nil
}

func parseYears(q url.Values, fallback domain.YearRange) (domain.YearRange, error) {
	from, err := parseInt(q, "from", fallback.From)
	if err != nil {
		return domain.YearRange{}, err
	}
	to, err := parseInt(q, "to", fallback.To)
	if err != nil {
		return domain.YearRange{}, err
	}
	years := domain.YearRange{From: from, To: to}
	if years.From > years.To {
		return domain.YearRange{}, fmt.Errorf("%w: year range %d-%d is inverted", domain.ErrInvalidCriteria, from, to)
	}
	return years, nil
}

func parseFeature(q url.Values, fallback domain.Feature) (domain.Feature, error) {
	raw := strings.TrimSpace(q.Get("feature"))
	if raw == "" {
		return fallback, nil
	}
	return domain.ParseFeature(raw)
}

// parseCriteria starts from the default filters and applies any
// from/to, <feature>_min, <feature>_max and sort parameters present.
func parseCriteria(q url.Values) (domain.SearchCriteria, error) {
	c := domain.DefaultCriteria()

	years, err := parseYears(q, c.Years)
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	c.Years = years

	for _, f := range domain.Features {
		minKey, maxKey := string(f)+"_min", string(f)+"_max"
		if !q.Has(minKey) && !q.Has(maxKey) {
			continue
		}
		r, ok := c.Range(f)
		if !ok {
			lo, hi := f.Bounds()
			r = domain.FeatureRange{Feature: f, Min: lo, Max: hi}
		}
		if r.Min, err = parseFloat(q, minKey, r.Min); err != nil {
			return domain.SearchCriteria{}, err
		}
		if r.Max, err = parseFloat(q, maxKey, r.Max); err != nil {
			return domain.SearchCriteria{}, err
		}
		c = c.WithRange(r)
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		key, err := domain.ParseSortKey(raw)
		if err != nil {
			return domain.SearchCriteria{}, err
		}
		c.SortBy = key
	}

	if err := c.Validate(); err != nil {
		return domain.SearchCriteria{}, err
	}
	return c, nil
}

// chartFeatureFor picks the bar feature for a search chart: the sort feature,
// or energy when results are sorted by date.
func chartFeatureFor(c domain.SearchCriteria) domain.Feature {
	if f := domain.Feature(c.SortBy); f.Valid() {
		return f
	}
	return domain.FeatureEnergy
}
