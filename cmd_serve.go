package main

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

	"preset-selector/api"
	"preset-selector/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve preset selection over HTTP and WebSocket",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	manager := session.NewManager()
	router := api.RegisterRoutes(manager, newEngine(), logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("preset-selector listening",
			zap.String("addr", srv.Addr), zap.Strings("search_paths", cfg.SearchPaths()))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
