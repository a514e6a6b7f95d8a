package sqlite

import (
	"fmt"
	"strings"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// DefaultTable is the relation holding one row per track.
const DefaultTable = "acoustic_features"

const trackColumns = `song, artist, IFNULL(album, ''), IFNULL(date, ''),
	IFNULL(energy, 0), IFNULL(valence, 0), IFNULL(danceability, 0),
	IFNULL(instrumentalness, 0), IFNULL(tempo, 0)`

// yearExpr reads the year from an ISO date (YYYY, YYYY-MM or YYYY-MM-DD).
// Any other format yields NULL, so the row never satisfies a year range.
const yearExpr = "CASE WHEN date GLOB '[0-9][0-9][0-9][0-9]*' THEN CAST(substr(date, 1, 4) AS INTEGER) END"

// artistMatch matches the configured artist as a substring. Wildcards in the
// artist are escaped by artistPattern.
const artistMatch = `artist LIKE ? ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// featureColumns whitelists the columns a feature may expand to. Only these
// identifiers are ever written into SQL text; all values are bound.
var featureColumns = map[domain.Feature]string{
	domain.FeatureEnergy:           "energy",
	domain.FeatureValence:          "valence",
	domain.FeatureDanceability:     "danceability",
	domain.FeatureInstrumentalness: "instrumentalness",
	domain.FeatureTempo:            "tempo",
}

func featureColumn(f domain.Feature) (string, error) {
	col, ok := featureColumns[f]
	if !ok {
		return "", fmt.Errorf("%w: unknown feature %q", domain.ErrInvalidCriteria, f)
	}
	return col, nil
}

func sortColumn(key domain.SortKey) (string, error) {
	if key == domain.SortByReleaseDate {
		return "date", nil
	}
	return featureColumn(domain.Feature(key))
}

func artistPattern(artist string) string {
	return "%" + likeEscaper.Replace(artist) + "%"
}

// BuildSearchQuery assembles the parameterized search over table for one
// artist. Rows are ordered by the sort key descending, then by song.
func BuildSearchQuery(table, artist string, c domain.SearchCriteria) (string, []any, error) {
	if err := c.Validate(); err != nil {
		return "", nil, err
	}
	orderBy, err := sortColumn(c.SortBy)
	if err != nil {
		return "", nil, err
	}

	where := []string{
		artistMatch,
		yearExpr + " BETWEEN ? AND ?",
	}
	args := []any{artistPattern(artist), c.Years.From, c.Years.To}

	for _, r := range c.Ranges {
		col, err := featureColumn(r.Feature)
		if err != nil {
			return "", nil, err
		}
		where = append(where, col+" BETWEEN ? AND ?")
		args = append(args, r.Min, r.Max)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s DESC, song ASC",
		trackColumns,
		table,
		strings.Join(where, " AND "),
		orderBy,
	)
	return query, args, nil
}

func buildArtistTracksQuery(table, artist string, years domain.YearRange) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s AND %s BETWEEN ? AND ? ORDER BY date DESC, song ASC",
		trackColumns, table, artistMatch, yearExpr)
	return query, []any{artistPattern(artist), years.From, years.To}
}

func buildAlbumAveragesQuery(table, artist string, f domain.Feature) (string, []any, error) {
	col, err := featureColumn(f)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf(`
		SELECT IFNULL(album, ''), IFNULL(MIN(date), ''), COALESCE(AVG(%s), 0)
		FROM %s
		WHERE %s
		GROUP BY album
		ORDER BY MIN(date) ASC, album ASC`, col, table, artistMatch)
	return query, []any{artistPattern(artist)}, nil
}

func buildDecadeComparisonQuery(table, artist string, f domain.Feature) (string, []any, error) {
	col, err := featureColumn(f)
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf(`
		SELECT src.album, src.released, src.year, src.decade, src.avg_feature, COALESCE(trend.trend_feature, 0)
		FROM (
			SELECT IFNULL(album, '') AS album,
				IFNULL(MIN(date), '') AS released,
				MIN(%[3]s) AS year,
				MIN(%[3]s) / 10 AS decade,
				COALESCE(AVG(%[1]s), 0) AS avg_feature
			FROM %[2]s
			WHERE %[4]s AND %[3]s IS NOT NULL
			GROUP BY album
		) AS src
		LEFT JOIN (
			SELECT %[3]s / 10 AS decade, AVG(%[1]s) AS trend_feature
			FROM %[2]s
			WHERE %[3]s IS NOT NULL
			GROUP BY 1
		) AS trend ON trend.decade = src.decade
		ORDER BY src.released ASC, src.album ASC`, col, table, yearExpr, artistMatch)
	return query, []any{artistPattern(artist)}, nil
}
