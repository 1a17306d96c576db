package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"worklytics/internal/db"
	"worklytics/internal/handlers"
	"worklytics/internal/logger"
	"worklytics/internal/repository/postgres"
	"worklytics/internal/service/auth"
	"worklytics/internal/service/auth/tokenmanager"
	"worklytics/internal/service/record"
	"worklytics/internal/service/report"
	"worklytics/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(auth.DefaultHasher, storage)
	recordService := record.NewService(storage)
	reportService := report.NewService(storage.Report())

	// Seed the admin account, dev environment only
	if c.Environment == logger.EnvDevelopment && c.AdminUsername != "" && c.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, c.AdminUsername, c.AdminPassword); err != nil {
			return nil, fmt.Errorf("error while seeding admin user. Err: %w", err)
		}
		log.Info("Admin account ensured", "username", c.AdminUsername)
	}

	mux := handlers.NewRouter(
		authService,
		recordService,
		reportService,
		userService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
