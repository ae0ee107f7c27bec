package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/refshelf/refshelf/internal/config"
	"github.com/refshelf/refshelf/internal/extract"
	"github.com/refshelf/refshelf/internal/handlers"
	"github.com/refshelf/refshelf/internal/infer"
	"github.com/refshelf/refshelf/internal/ingest"
	"github.com/refshelf/refshelf/internal/providers"
	"github.com/refshelf/refshelf/internal/store"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the library HTTP API",
		Long: `Starts the Refshelf API on the configured address.

The API serves record CRUD plus the ingestion pipeline: upload a
document and get back a draft with extracted text chunks and
AI-inferred bibliographic metadata.`,
		Example: `  # Start server on the configured address (default :8888)
  refshelf serve

  # Start server on a custom address
  refshelf serve --addr :3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			handler := handlers.New(newStore(cfg), newOrchestrator(cfg))

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/records", handler.HandleRecords)
			mux.HandleFunc("/api/records/", handler.HandleRecordDetail)
			mux.HandleFunc("/api/ingest", handler.HandleIngest)
			mux.HandleFunc("/api/ingest/stage", handler.HandleStage)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			server := &http.Server{
				Addr:    cfg.Addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Refshelf API available", "addr", cfg.Addr)
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

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address, overriding the config file")

	return cmd
}

func newStore(cfg config.Config) store.Store {
	if cfg.SheetsURL != "" {
		return store.NewSheets(cfg.SheetsURL)
	}
	slog.Warn("No records backend configured, using in-memory store")
	return store.NewMemory()
}

func newOrchestrator(cfg config.Config) *ingest.Orchestrator {
	registry := providers.NewRegistry()
	if cfg.GeminiAPIKey != "" {
		registry.Register("gemini", providers.NewGemini(cfg.GeminiAPIKey))
	}
	if cfg.OpenAIAPIKey != "" {
		registry.Register("openai", providers.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL))
	}
	if cfg.OllamaURL != "" {
		registry.Register("ollama", providers.NewOllama(cfg.OllamaURL))
	}

	mode := infer.ModeCore
	if cfg.DeepAnalysis {
		mode = infer.ModeDeep
	}

	return ingest.New(
		extract.NewClient(cfg.ExtractURL, cfg.StorageURL),
		infer.NewClient(registry, cfg.Provider, cfg.Model, mode),
		nil,
		nil,
	)
}
