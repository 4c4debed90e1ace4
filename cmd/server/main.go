// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/api"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/cache"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/config"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/repository/postgres"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/service"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/sheets"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/state"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/storage"
	"github.com/seriseptian210525/odoo-stock-dashboard/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	creds, err := cfg.Sheets.SheetsCredentials()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("google credentials not configured")
	}
	sheetsClient, err := sheets.NewClient(ctx, creds, cfg.Sheets.SpreadsheetID)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("could not create sheets client")
	}

	appState := state.New()

	var archive storage.UploadArchive = storage.NoopArchive{}
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioArchive(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("could not connect to upload archive")
		}
	}

	var runs *postgres.RunRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db.DB.DB)
	}

	kpiCache, err := cache.NewKPICache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("kpi cache unavailable, continuing without it")
		kpiCache = cache.NewNoopKPICache()
	}

	dashboard := service.NewDashboardService(sheetsClient, appState, archive, runs, kpiCache, cfg.Storage.Prefix)

	// A failed initial load is not fatal: the API stays up and serves 503
	// until the first successful upload or refresh.
	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := dashboard.LoadInitial(loadCtx); err != nil {
		logger.Log.Warn().Err(err).Msg("initial spreadsheet load failed, starting without data")
	}
	cancel()

	router := api.NewRouter(&api.Services{Dashboard: dashboard}, cfg.Server.AllowedOrigins, cfg.App.Password)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
