package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/soundscope/internal/core/domain"
)

// AlbumsOptions holds flags for the albums command.
type AlbumsOptions struct {
	*RootOptions
	Feature string
	Decades bool
}

type albumsOutput struct {
	Feature domain.Feature            `json:"feature"`
	Albums  []domain.AlbumAverage     `json:"albums,omitempty"`
	Decades []domain.DecadeComparison `json:"decades,omitempty"`
}

// NewAlbumsCommand creates the albums command.
func NewAlbumsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AlbumsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "albums",
		Short: "Average a feature per album, optionally against its decade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlbums(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Feature, "feature", string(domain.FeatureEnergy), "feature to average")
	cmd.Flags().BoolVar(&opts.Decades, "decades", false, "compare each album with the average of its decade")

	return cmd
}

func runAlbums(cmd *cobra.Command, opts *AlbumsOptions) error {
	out := formatterFor(opts.RootOptions, cmd.OutOrStdout())

	feature, err := domain.ParseFeature(opts.Feature)
	if err != nil {
		return out.Fail("invalid feature", err)
	}

	a, err := newApp(opts.RootOptions, false)
	if err != nil {
		return out.Fail("failed to open dataset", err)
	}
	defer a.Close()

	result := albumsOutput{Feature: feature}
	if opts.Decades {
		result.Decades, err = a.explorer.DecadeComparison(cmd.Context(), feature)
	} else {
		result.Albums, err = a.explorer.AlbumAverages(cmd.Context(), feature)
	}
	if err != nil {
		return out.Fail("album query failed", err)
	}

	return out.Success(result, func(w io.Writer) error {
		return writeAlbumsText(w, result)
	})
}

func writeAlbumsText(w io.Writer, result albumsOutput) error {
	if len(result.Albums) == 0 && len(result.Decades) == 0 {
		_, err := fmt.Fprintln(w, "No albums.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if result.Decades != nil {
		fmt.Fprintf(tw, "ALBUM\tYEAR\tDECADE\t%s\tDECADE AVG\n", headerFor(result.Feature))
		for _, d := range result.Decades {
			fmt.Fprintf(tw, "%s\t%d\t%ds\t%.2f\t%.2f\n", d.Album, d.Year, d.Decade, d.AlbumAverage, d.DecadeAverage)
		}
	} else {
		fmt.Fprintf(tw, "ALBUM\tRELEASED\t%s\n", headerFor(result.Feature))
		for _, avg := range result.Albums {
			released := "-"
			if !avg.ReleaseDate.IsZero() {
				released = avg.ReleaseDate.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "%s\t%s\t%.2f\n", avg.Album, released, avg.Average)
		}
	}
	return tw.Flush()
}

func headerFor(f domain.Feature) string {
	return fmt.Sprintf("AVG %s", f)
}
