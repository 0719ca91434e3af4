package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/user-registry/internal/config"
	"github.com/georgemunganga/user-registry/internal/database"
	"github.com/georgemunganga/user-registry/internal/logger"
	"github.com/georgemunganga/user-registry/internal/modules/auth"
	"github.com/georgemunganga/user-registry/internal/modules/health"
	"github.com/georgemunganga/user-registry/internal/modules/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ─────────────────────────────────────────────
	var userRepo user.Repository
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		userRepo, err = user.NewMemoryRepository()
		if err != nil {
			log.Fatal("failed to create memory store", "error", err)
		}
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		db := openDatabase(ctx, cfg, log)
		defer db.Close()
		userRepo = user.NewPostgresRepository(db)
	}

	policy, err := user.NewPolicy(cfg.Policy.PasswordPattern, cfg.Policy.EmailPattern)
	if err != nil {
		log.Fatal("invalid user policy", "error", err)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Recoverer)

	authService := auth.NewService(cfg.JWT.Secret)
	userService := user.NewService(userRepo, authService, policy, cfg.Password.Cost, log)
	user.NewHandler(userService, log).RegisterRoutes(router)
	health.NewHandler(userRepo).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}()

	log.Info("user registry server starting", "port", cfg.App.Port, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", "error", err)
	}
	log.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *sql.DB {
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("failed to connect to the database", "error", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("failed to migrate the database", "error", err)
	}
	log.Info("successfully connected to the database")
	return db
}
