// Package main provides the entry point for the HTTP server.
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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/database/database"
	"github.com/taskhive/taskhive/internal/database/migrate"
	"github.com/taskhive/taskhive/internal/health"
	"github.com/taskhive/taskhive/internal/mail"
	"github.com/taskhive/taskhive/internal/middleware"
	notificationRouter "github.com/taskhive/taskhive/internal/notification/router"
	"github.com/taskhive/taskhive/internal/realtime"
	teamRepository "github.com/taskhive/taskhive/internal/team/repository"
	teamRouter "github.com/taskhive/taskhive/internal/team/router"
	taskRouter "github.com/taskhive/taskhive/internal/teamtask/router"
	"github.com/taskhive/taskhive/pkg/logger"
)

func main() {
	// Missing .env is fine, variables may come from the environment.
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.New()
	if err != nil {
		zapLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Errorw("error closing database", "error", err)
		}
	}()

	if err := migrate.Migrate(db); err != nil {
		zapLogger.Fatalw("failed to apply migrations", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Logger(zapLogger))
	r.Use(middleware.Recovery(zapLogger))

	healthHandler := health.New(db, zapLogger)
	r.GET("/health", healthHandler.Check)

	verifier := auth.NewJWTManager(cfg.Auth)
	mailer := mail.FromConfig(cfg.Mail, zapLogger)

	api := r.Group("/api")
	api.Use(middleware.Auth(verifier))
	teamRouter.RegisterRoutes(api, db, mailer, cfg.Invite, zapLogger)
	taskRouter.RegisterRoutes(api, db, zapLogger)
	notificationRouter.RegisterRoutes(api, db, zapLogger)

	ws := realtime.NewHandler(verifier, teamRepository.New(db), cfg.Realtime, zapLogger)
	r.GET("/ws", ws.ServeWS)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Infow("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Errorw("forced shutdown", "error", err)
	}
	zapLogger.Infow("server stopped")
}
