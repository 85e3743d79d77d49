package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/ai"
	"github.com/App-Start-Dev/innolympics-api/internal/auth"
	"github.com/App-Start-Dev/innolympics-api/internal/config"
	"github.com/App-Start-Dev/innolympics-api/internal/handlers"
	"github.com/App-Start-Dev/innolympics-api/internal/logger"
	"github.com/App-Start-Dev/innolympics-api/internal/storage"
	"github.com/App-Start-Dev/innolympics-api/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewForEnvironment(cfg.App.Env)
	defer log.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	blobs, err := storage.NewS3BlobStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	responder, err := ai.NewGeminiResponder(&cfg.AI)
	if err != nil {
		log.Fatal("Failed to initialize consultation responder", zap.Error(err))
	}

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	r := handlers.NewRouter(handlers.Dependencies{
		Store:       db,
		Blobs:       blobs,
		Responder:   responder,
		Verifier:    verifier,
		Logger:      log,
		Version:     Version,
		CORSOrigins: cfg.App.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("port", cfg.App.Port), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
