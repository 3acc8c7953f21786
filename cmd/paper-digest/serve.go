// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/fetch"
	"github.com/pdiddy/paper-digest/internal/job"
	"github.com/pdiddy/paper-digest/internal/logging"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/server"
	"github.com/pdiddy/paper-digest/internal/summarize"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the asynchronous digest job API",
	Long: `Serve starts an HTTP server exposing the digest pipeline as background
jobs: POST /submit accepts a topic and returns a task id, GET /status/<id>
reports progress and eventually the summaries, DELETE /jobs/<id> cancels a
running job.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("store", "", "job store backend: memory, sqlite, or redis")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store.Backend = types.StoreBackend(backend)
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	log := logging.New(logLevel)

	store, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening job store: %w", err)
	}
	defer store.Close()

	client := newHTTPClient(cfg.Search.HTTPConfig)
	runner := pipeline.NewRunner(
		fetch.NewArxivLister(client, cfg.Search),
		fetch.NewHTTPPageFetcher(client, cfg.Search.UserAgent),
		summarize.New(cfg.Summary),
		cfg.Pipeline,
		log,
	)

	manager := job.NewManager(store, runner, log)
	defer manager.Close()

	srv := server.New(manager, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
