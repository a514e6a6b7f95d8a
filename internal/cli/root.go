// Package cli wires the soundscope command line.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/soundscope/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	DBPath string
	Artist string

	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Flag defaults come from cfg.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	if cfg == nil {
		cfg = &config.Config{
			DatabasePath: config.DefaultDatabasePath,
			Artist:       config.DefaultArtist,
			HTTPAddr:     config.DefaultHTTPAddr,
		}
	}
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "soundscope",
		Short: "soundscope - explore an artist's acoustic features",
		Long: `Explore the Spotify acoustic features of one artist's catalogue.

Filters tracks by release year and feature ranges, ranks and deduplicates
the results, charts album averages against their decade and links
30-second previews when Spotify credentials are configured.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Artist = strings.TrimSpace(opts.Artist)
			if opts.Artist == "" {
				return WrapExitError(ExitCommandError, "invalid artist", errors.New("--artist must not be empty"))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DatabasePath, "path to the acoustic features SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Artist, "artist", cfg.Artist, "artist every query is scoped to")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewAlbumsCommand(opts))
	cmd.AddCommand(NewPreviewCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
