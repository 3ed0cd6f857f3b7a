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

	"github.com/joho/godotenv"

	"github.com/notekeep/notekeep-go/internal/config"
	"github.com/notekeep/notekeep-go/internal/crypto"
	"github.com/notekeep/notekeep-go/internal/handler"
	"github.com/notekeep/notekeep-go/internal/repository"
	"github.com/notekeep/notekeep-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewDB(startCtx, cfg.DatabaseDSN)
	if err != nil {
		cancelStart()
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	err = repository.Migrate(startCtx, db)
	cancelStart()
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	tokens, err := crypto.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		slog.Error("token service setup failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	authService, err := service.NewAuthService(userRepo, crypto.NewHasher(cfg.Hash), tokens)
	if err != nil {
		slog.Error("auth service setup failed", "error", err)
		os.Exit(1)
	}
	noteService := service.NewNoteService(noteRepo)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(authService, noteService, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		return
	}

	slog.Info("server stopped")
}
