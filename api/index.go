package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/knowhub/internal/app"
	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// Sessions live per instance here; the serverless runtime recycles instances
	// often enough that no idle sweeper runs.
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
