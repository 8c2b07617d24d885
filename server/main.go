//go:build !js
// +build !js

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

func run(ctx context.Context, cfg Config, logger *logrus.Logger) error {
	cache, err := NewCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewServer(cfg, logger, cache).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"addr":  cfg.Addr,
		"cache": cfg.RedisAddr != "",
	}).Info("pfxr server starting")
	logger.Info("Sound endpoint: /api/sound?template=laser&seed=42 or /api/sound?fx=...")
	logger.Info("WebSocket endpoint: /api/ws")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
