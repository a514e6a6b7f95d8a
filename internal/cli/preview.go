package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type previewOutput struct {
	Song       string `json:"song"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url"`
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <song>",
		Short: "Look up the 30-second Spotify preview for one song",
		Long: `Resolve a preview link for one of the artist's songs.

Requires SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET. A song with no
preview exits with status 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, rootOpts, strings.Join(args, " "))
		},
	}
}

func runPreview(cmd *cobra.Command, opts *RootOptions, song string) error {
	out := formatterFor(opts, cmd.OutOrStdout())

	a, err := newApp(opts, false)
	if err != nil {
		return out.Fail("failed to open dataset", err)
	}
	defer a.Close()

	url, err := a.explorer.Preview(cmd.Context(), song)
	if err != nil {
		return out.Fail("no preview", err)
	}

	result := previewOutput{Song: song, Artist: a.explorer.Artist(), PreviewURL: url}
	return out.Success(result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, url)
		return err
	})
}
