package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/onepctclub/storefront/api/routes"
	"github.com/onepctclub/storefront/internal/records"
	"github.com/onepctclub/storefront/pkg/config"
	"github.com/onepctclub/storefront/pkg/logger"
)

// stubd is the local backend the storefront and admin clients point at:
// it serves the admin API, the legacy order endpoint, and the
// database-REST insert surface over a sqlite file.
func main() {
	logg := logger.New(logger.Options{ServiceName: "stubd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	db, err := records.OpenDB(cfg.Stub.DBPath)
	if err != nil {
		logg.Error(context.Background(), "failed to open records database", err)
		os.Exit(1)
	}

	recordsService, err := records.NewService(records.NewRepository(db))
	if err != nil {
		logg.Error(context.Background(), "failed to create records service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Stub.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"db":   cfg.Stub.DBPath,
	})
	logg.Info(ctx, "starting stub backend")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, recordsService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "stub backend stopped unexpectedly", err)
		os.Exit(1)
	}
}
