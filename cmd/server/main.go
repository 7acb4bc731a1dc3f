// ABOUTME: Main entry point for the fuel HTTP server
// ABOUTME: Serves the ledger REST API and live change stream to browser surfaces
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/harper/fuel-ledger/internal/app"
	"github.com/harper/fuel-ledger/internal/config"
	"github.com/harper/fuel-ledger/internal/httpapi"
	"github.com/harper/fuel-ledger/internal/logger"
)

// serverSurface labels this process's origin on the change bus
const serverSurface = "server"

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.SurfaceKind = serverSurface

	logg, err := logger.New(cfg.LogMode, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	routerCfg := httpapi.RouterConfig{
		Ledger:      a.Ledger,
		Log:         logg,
		CORSOrigins: cfg.CORSOrigins,
	}
	if session, err := a.Coach(); err != nil {
		logg.Warn("coach disabled", "error", err)
	} else {
		routerCfg.Coach = session
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, routerCfg)
	logg.Info("fuel server listening", "addr", cfg.HTTPAddr, "surface", a.Surface.Origin(), "backend", cfg.Backend)
	if err := srv.Run(ctx); err != nil {
		logg.Error("server error", "error", err)
		os.Exit(1)
	}
	logg.Info("shutdown complete")
}
