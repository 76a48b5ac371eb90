package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/api"
	"github.com/soaringjerry/Candor/internal/backend"
	"github.com/soaringjerry/Candor/internal/cache"
	"github.com/soaringjerry/Candor/internal/config"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/middleware"
	"github.com/soaringjerry/Candor/internal/quality"
	"github.com/soaringjerry/Candor/internal/services"
)

var version = "dev"

const maxBodyBytes = 10 * 1024 * 1024

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewZap(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.SQLitePath)
	if err != nil {
		logger.Fatal(ctx, "failed to open store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()
	if *migrateOnly {
		logger.Info(ctx, "migrations applied", zap.String("path", cfg.SQLitePath))
		return
	}

	c, closeCache := openCache(ctx, logger, cfg.RedisURL)
	defer closeCache()

	bc := backend.New(cfg.BackendURL,
		backend.WithRetries(cfg.BackendRetries, 100*time.Millisecond),
		backend.WithTokenCookie(cfg.TokenCookie),
	)
	ai := quality.New(quality.Config{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	}, nil)
	if !ai.Enabled() {
		logger.Info(ctx, "AI key not set, feedback is not classified or summarized")
	}

	sessions := services.NewSessionService(bc, cache.NewSessionStore(c, cfg.SessionTTL), store, cfg.SessionTTL)
	forms := services.NewFormService(bc, c, cfg.FormsCacheTTL, store)
	feedback := services.NewFeedbackService(bc, forms, ai, store, store)
	reviews := services.NewReviewService(bc, ai, store, forms)
	audits := services.NewAuditService(store)

	frontend, err := api.NewFrontend(cfg.StaticDir, cfg.DevFrontendURL)
	if err != nil {
		logger.Fatal(ctx, "frontend", zap.Error(err))
	}

	rt := api.NewRouter(api.Options{
		SessionCookie: cfg.SessionCookie,
		SecureCookies: cfg.SecureCookies,
		CORSOrigin:    cfg.CORSOrigin,
		Frontend:      frontend,
		Version:       version,
		Commit:        cfg.Commit,
	}, logger, middleware.NewTokenVerifier(cfg.JWTSecret, cfg.TokenCookie),
		sessions, forms, feedback, reviews, audits)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           http.MaxBytesHandler(rt.Handler(), maxBodyBytes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "candor listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", zap.Error(err))
	}
}
