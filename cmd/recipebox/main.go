package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/recipebox/internal/account"
	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/config"
	"github.com/dukerupert/recipebox/internal/database"
	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/logging"
	"github.com/dukerupert/recipebox/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.SecretGenerated {
		logger.Warn("RECIPEBOX_SESSION_SECRET not set; using a random secret, sessions end on restart")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	var images imagestore.Store
	if cfg.S3.Enabled() {
		images = imagestore.NewS3Store(cfg.S3)
		logger.Info("storing images in bucket", "bucket", cfg.S3.Bucket)
	} else {
		local, err := imagestore.NewLocalStore(cfg.ImageDir)
		if err != nil {
			logger.Error("open image directory", "error", err, "dir", cfg.ImageDir)
			os.Exit(1)
		}
		images = local
		logger.Info("storing images on disk", "dir", cfg.ImageDir)
	}

	srv := server.New(db, server.Options{
		Tokens:         auth.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
		Hasher:         account.BcryptHasher{},
		Images:         images,
		BaseURL:        cfg.BaseURL,
		CookieSecure:   cfg.CookieSecure,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup(10 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("recipebox listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
