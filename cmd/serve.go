package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/annotcheck/internal/checkcmd"
	"github.com/lehigh-university-libraries/annotcheck/internal/handlers"
	"github.com/lehigh-university-libraries/annotcheck/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *checkcmd.Options) *cobra.Command {
	var port string
	var keep int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server for validating uploaded annotation files",
		Long: `Starts an HTTP API on the specified port.

POST a COCO annotation document to /api/validate to validate it. Reports are
kept in memory and listed under /api/reports.`,
		Example: `  # Start server on default port 8888
  annotcheck serve

  # Validate a file against a running server
  curl --data-binary @split_train.json 'http://localhost:8888/api/validate?source=split_train.json'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := opts.Validator()
			if err != nil {
				return err
			}
			handler := handlers.New(validator, storage.New(keep))

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Annotcheck API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().IntVar(&keep, "keep", 100, "Number of reports kept in memory (0 keeps all)")

	return cmd
}
