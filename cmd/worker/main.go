package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/digitalorder/accounts/internal/database"
	"github.com/digitalorder/accounts/internal/mailer"
	"github.com/digitalorder/accounts/internal/tasks"
	"github.com/digitalorder/accounts/pkg/config"
	"github.com/digitalorder/accounts/pkg/queue"
	"github.com/digitalorder/accounts/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting accounts worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	srv := queue.NewServer(&cfg.Redis, 10)

	mail := mailer.New(&cfg.Mail, logger)
	handler := tasks.NewHandler(db, logger, mail)

	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Periodic token sweep keeps the token tables from growing unbounded.
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	}, nil)
	if _, err := scheduler.Register("@every 1h", tasks.NewTokenSweepTask()); err != nil {
		logger.Error("failed to register token sweep", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
