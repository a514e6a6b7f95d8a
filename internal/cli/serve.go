package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/adapters/rest"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", rootOpts.Config.HTTPAddr, "listen address")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	a, err := newApp(opts.RootOptions, true)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open dataset", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           rest.NewHandler(a.explorer, a.logger),
		ReadHeaderTimeout: 15 * time.Second,
	}

	a.logger.Info("soundscope is listening",
		zap.String("addr", opts.Addr),
		zap.String("artist", a.explorer.Artist()),
		zap.Bool("previews", a.explorer.PreviewsEnabled()),
	)

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return WrapExitError(ExitFailure, "server stopped", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown error", zap.Error(err))
			return WrapExitError(ExitFailure, "shutdown failed", err)
		}
		return nil
	}
}
