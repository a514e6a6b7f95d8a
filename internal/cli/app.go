package cli

import (
	"io"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/adapters/spotify"
	"github.com/ewilliams-labs/soundscope/internal/adapters/sqlite"
	"github.com/ewilliams-labs/soundscope/internal/core/ports"
	"github.com/ewilliams-labs/soundscope/internal/core/services"
	"github.com/ewilliams-labs/soundscope/internal/logger"
)

// app is the wired object graph one command runs against.
type app struct {
	explorer *services.Explorer
	dataset  *sqlite.Adapter
	logger   *zap.Logger
}

// newApp opens the dataset named by the root flags and injects it, with a
// Spotify client when credentials are configured, into an Explorer.
// Console logs go to stderr unless the command owns a long-running server.
func newApp(opts *RootOptions, serving bool) (*app, error) {
	cfg := opts.Config
	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		Stderr:     !serving,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build logger", err)
	}
	if cfg.EnvFileLoaded {
		log.Debug("loaded configuration from .env")
	}

	dataset, err := sqlite.NewAdapter(opts.DBPath, sqlite.WithLogger(log))
	if err != nil {
		log.Sync()
		return nil, err
	}

	var previews ports.PreviewResolver
	if cfg.PreviewsEnabled() {
		previews = spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret,
			spotify.WithTokenURL(cfg.SpotifyTokenURL),
			spotify.WithBaseURL(cfg.SpotifyAPIURL),
			spotify.WithLogger(log),
		)
	} else {
		log.Debug("spotify credentials not set, previews disabled")
	}

	return &app{
		explorer: services.NewExplorer(dataset, previews, opts.Artist, cfg.TopK, log),
		dataset:  dataset,
		logger:   log,
	}, nil
}

// Close releases the dataset and flushes the logger.
func (a *app) Close() error {
	err := a.dataset.Close()
	a.logger.Sync()
	return err
}

// formatterFor builds the formatter for the root --format flag.
func formatterFor(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}
