package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cardscan/internal/handlers"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var opts pipelineOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web scanning interface",
		Long: `Starts the card scanning interface on the specified port.

Upload a card photo (or point at an image URL) and the pipeline identifies
the card. Translation of the rules text is a separate, on-demand action.`,
		Example: `  # Start server on default port 8888
  cardscan serve

  # Start server on custom port, showing Portuguese printings
  cardscan serve --port 3000 --lang pt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, engine, err := buildPipeline(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			handler := handlers.New(pipeline)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/scan", handler.HandleScan)
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Cardscan interface available", "addr", addr, "url", "http://localhost"+addr)
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
	cmd.Flags().StringVar(&opts.engine, "engine", "tesseract", "OCR engine (tesseract or gemini)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML pipeline config")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Target language for display and translation")
	cmd.Flags().BoolVar(&opts.rectify, "rectify", false, "Detect the card boundary and correct perspective first")

	return cmd
}
