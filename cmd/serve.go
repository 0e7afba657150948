package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"furigana/server"
)

func newServeCmd(opts *options) *cobra.Command {
	cfg := opts.cfg
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotator as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newAnnotator(ctx, cfg)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(a, cfg.Analyzer.Workers, cfg.Server.AllowedOrigins),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", cfg.Server.Addr, "dict", cfg.Analyzer.Dict)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	serveCmd.Flags().StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	serveCmd.Flags().StringSliceVar(&cfg.Server.AllowedOrigins, "allowed-origin", cfg.Server.AllowedOrigins, "CORS allowed origins")
	return serveCmd
}
