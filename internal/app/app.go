package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-api-starter/internal/config"
	"go-api-starter/internal/database"
	"go-api-starter/internal/handler"
	"go-api-starter/internal/middleware"
	"go-api-starter/internal/repository"
	"go-api-starter/internal/router"
	"go-api-starter/internal/service"
)

type App struct {
	server      *http.Server
	db          *database.DB
	stopCleanup context.CancelFunc
}

// startTokenCleanup sweeps expired refresh tokens on an interval until
// the context is canceled.
func startTokenCleanup(ctx context.Context, tokens *repository.RefreshTokenRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanExpired(ctx)
			if err != nil {
				slog.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("expired refresh tokens removed", "count", removed)
			}
		}
	}
}

func New(cfg *config.Config) (*App, error) {
	slog.Info("connecting to database")
	db, err := database.Open(context.Background(), cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	slog.Info("database ready", "dialect", db.Dialect)

	authService, err := service.NewAuthService(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, userRepo, tokenRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	studentService := service.NewStudentService(studentRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService, authService)

	appRouter := router.New(cfg, authMiddleware,
		handler.NewHealthHandler(db),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(authService),
		handler.NewStudentHandler(studentService),
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go startTokenCleanup(cleanupCtx, tokenRepo, time.Hour)

	return &App{server: server, db: db, stopCleanup: stopCleanup}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.stopCleanup()
	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.db.Close()

	slog.Info("server stopped")
	return nil
}
