// Command server runs the study content API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	"github.com/studyquest/studyquest-api/internal/cache"
	"github.com/studyquest/studyquest-api/internal/config"
	"github.com/studyquest/studyquest-api/internal/generation"
	"github.com/studyquest/studyquest-api/internal/platform/gemini"
	"github.com/studyquest/studyquest-api/internal/platform/logger"
	"github.com/studyquest/studyquest-api/internal/platform/postgres"
	"github.com/studyquest/studyquest-api/internal/service"
	"github.com/studyquest/studyquest-api/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("starting server",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}()

	studyService, err := buildStudyService(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	sweeper := startSweeper(cfg.Cache.SweepSchedule, studyService, log)
	defer sweeper.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(studyService, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// openDatabase connects to Postgres and applies pending schema migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("database ready")

	return db, nil
}

// buildStudyService wires the provider client, the fallback chain, the
// generators, and the content cache into the workflow service.
func buildStudyService(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	log *slog.Logger,
) (*service.StudyService, error) {
	caller, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:            cfg.LLM.GeminiAPIKey,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	chain, err := generation.NewChain(caller, cfg.LLM.Models, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model chain: %w", err)
	}
	chain.SetAttemptTimeout(time.Duration(cfg.LLM.AttemptTimeoutSeconds) * time.Second)

	notesGen, err := generation.NewNotesGenerator(chain, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notes generator: %w", err)
	}
	quizGen, err := generation.NewQuizGenerator(chain, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz generator: %w", err)
	}

	contentCache := cache.New(
		postgres.NewCacheStore(db, log),
		log,
		cache.WithSoftTTL(time.Duration(cfg.Cache.SoftTTLHours)*time.Hour),
		cache.WithHardTTL(time.Duration(cfg.Cache.HardTTLHours)*time.Hour),
		cache.WithMaxPerTopic(cfg.Cache.MaxPerTopic),
	)

	return service.NewStudyService(
		contentCache,
		notesGen,
		quizGen,
		log,
		service.WithStudyTimeout(time.Duration(cfg.LLM.StudyTimeoutSeconds)*time.Second),
		service.WithBatchTopicTimeout(time.Duration(cfg.LLM.BatchTopicTimeoutSeconds)*time.Second),
	)
}

// startSweeper schedules the hard-expiry cache sweep.
func startSweeper(schedule string, studyService *service.StudyService, log *slog.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := studyService.SweepExpired(ctx)
		if err != nil {
			log.Error("cache sweep failed", slog.String("error", err.Error()))
			return
		}
		log.Info("cache sweep complete", slog.Int64("deleted", deleted))
	})
	if err != nil {
		// Schedule validity is enforced at config load, so this only
		// trips on a programming error.
		log.Error("failed to schedule cache sweep",
			slog.String("schedule", schedule),
			slog.String("error", err.Error()))
	}
	c.Start()
	return c
}
