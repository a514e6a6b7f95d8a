package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/services"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	From     int
	To       int
	Ranges   map[domain.Feature]*string
	Sort     string
	Previews bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	defaults := domain.DefaultCriteria()
	opts := &SearchOptions{
		RootOptions: rootOpts,
		Ranges:      make(map[domain.Feature]*string, len(domain.Features)),
	}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the top tracks matching year and feature ranges",
		Long: `Filter the artist's tracks by release year and feature ranges, rank them
by the sort key and print the top results with alternate versions removed.

Feature ranges take the form min,max, for example --energy 0.5,1.
Ranges not given on the command line keep their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.From, "from", defaults.Years.From, "first release year")
	cmd.Flags().IntVar(&opts.To, "to", defaults.Years.To, "last release year")
	for _, f := range domain.Features {
		r, ok := defaults.Range(f)
		if !ok {
			lo, hi := f.Bounds()
			r = domain.FeatureRange{Feature: f, Min: lo, Max: hi}
		}
		opts.Ranges[f] = cmd.Flags().String(string(f), formatRange(r), fmt.Sprintf("%s range as min,max", f))
	}
	cmd.Flags().StringVar(&opts.Sort, "sort", string(defaults.SortBy), "sort key (a feature name or release_date)")
	cmd.Flags().BoolVar(&opts.Previews, "previews", false, "resolve Spotify preview links")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions) error {
	out := formatterFor(opts.RootOptions, cmd.OutOrStdout())

	criteria, err := buildCriteria(cmd, opts)
	if err != nil {
		return out.Fail("invalid search", err)
	}

	a, err := newApp(opts.RootOptions, false)
	if err != nil {
		return out.Fail("failed to open dataset", err)
	}
	defer a.Close()

	result, err := a.explorer.Search(cmd.Context(), criteria, opts.Previews)
	if err != nil {
		return out.Fail("search failed", err)
	}

	return out.Success(result, func(w io.Writer) error {
		return writeSearchText(w, result)
	})
}

// buildCriteria starts from the default filters and applies every range
// flag that was set explicitly.
func buildCriteria(cmd *cobra.Command, opts *SearchOptions) (domain.SearchCriteria, error) {
	c := domain.DefaultCriteria()
	c.Years = domain.YearRange{From: opts.From, To: opts.To}

	for _, f := range domain.Features {
		if !cmd.Flags().Changed(string(f)) {
			continue
		}
		r, err := parseRange(f, *opts.Ranges[f])
		if err != nil {
			return domain.SearchCriteria{}, err
		}
		c = c.WithRange(r)
	}

	key, err := domain.ParseSortKey(opts.Sort)
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	c.SortBy = key

	if err := c.Validate(); err != nil {
		return domain.SearchCriteria{}, err
	}
	return c, nil
}

// parseRange reads "min,max" into a range for f.
func parseRange(f domain.Feature, raw string) (domain.FeatureRange, error) {
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return domain.FeatureRange{}, fmt.Errorf("%w: --%s must be min,max", domain.ErrInvalidCriteria, f)
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return domain.FeatureRange{}, fmt.Errorf("%w: --%s min must be a number", domain.ErrInvalidCriteria, f)
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return domain.FeatureRange{}, fmt.Errorf("%w: --%s max must be a number", domain.ErrInvalidCriteria, f)
	}
	return domain.FeatureRange{Feature: f, Min: minV, Max: maxV}, nil
}

func formatRange(r domain.FeatureRange) string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "," + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

func writeSearchText(w io.Writer, result services.SearchResult) error {
	if result.Empty() {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSONG\tALBUM\tYEAR\tENERGY\tVALENCE\tDANCE\tINSTR\tTEMPO\tPREVIEW")
	for i, e := range result.Entries {
		preview := e.PreviewURL
		if preview == "" {
			preview = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.0f\t%s\n",
			i+1, e.Song, e.Album, e.Year(),
			e.Features.Energy, e.Features.Valence, e.Features.Danceability,
			e.Features.Instrumentalness, e.Features.Tempo, preview)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d matched, %d shown after removing alternate versions\n", result.Matched, len(result.Entries))
	return err
}
