package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/propquery/internal/config"
	dbValkey "github.com/kailas-cloud/propquery/internal/db/valkey"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
	logpkg "github.com/kailas-cloud/propquery/internal/logger"
	"github.com/kailas-cloud/propquery/internal/metrics"
	"github.com/kailas-cloud/propquery/internal/repository/catalogcache"
	propertyrepo "github.com/kailas-cloud/propquery/internal/repository/property"
	chiTransport "github.com/kailas-cloud/propquery/internal/transport/chi"
	compileuc "github.com/kailas-cloud/propquery/internal/usecase/compile"
	healthuc "github.com/kailas-cloud/propquery/internal/usecase/health"
	propertyuc "github.com/kailas-cloud/propquery/internal/usecase/property"
	"github.com/kailas-cloud/propquery/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting propquery API server",
		zap.Stringer("build", version.Get()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("resolver_fallback", cfg.Resolver.Fallback),
	)

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		Standalone: cfg.Database.Standalone,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.Register()

	propRepo := catalogcache.New(
		propertyrepo.New(store, cfg.Storage.KeyPrefix),
		time.Duration(cfg.Storage.CatalogCacheTTLSec)*time.Second,
		metrics.CatalogCacheTotal,
		logger,
	)

	compileSvc := compileuc.New(propRepo)
	if cfg.Resolver.Fallback {
		compileSvc.WithFallback(domprop.Convention{Suffix: cfg.Resolver.Suffix})
	}
	propSvc := propertyuc.New(propRepo)
	healthSvc := healthuc.New(store, propRepo)

	server := chiTransport.NewServer(compileSvc, propSvc, healthSvc).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
