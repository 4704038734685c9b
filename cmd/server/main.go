package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/knowhub/internal/app"
	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.Close()

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.Handler,
		ReadTimeout: 5 * time.Second,
		// Chat responses stream for as long as the provider keeps talking.
		WriteTimeout: 2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.SweepSessions(gctx, cfg.SessionIdleTTL)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
