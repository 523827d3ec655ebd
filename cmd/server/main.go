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

	"github.com/mmynk/moneybalancer/internal/auth"
	"github.com/mmynk/moneybalancer/internal/config"
	"github.com/mmynk/moneybalancer/internal/handlers"
	"github.com/mmynk/moneybalancer/internal/service"
	"github.com/mmynk/moneybalancer/internal/storage/sqlite"
	"github.com/mmynk/moneybalancer/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	groupService := service.NewGroupService(store)
	ledgerService := service.NewLedgerService(store)

	router := handlers.NewRouter(
		handlers.NewUserHandler(authenticator, jwtManager, groupService),
		handlers.NewGroupHandler(groupService, ledgerService),
		jwtManager,
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
