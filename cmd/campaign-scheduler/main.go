package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/bootstrap"
	awsclient "github.com/staybright/offseason-campaigns/internal/client/aws"
	"github.com/staybright/offseason-campaigns/internal/config"
	"github.com/staybright/offseason-campaigns/internal/logger"
)

const shutdownTimeout = 5 * time.Minute

func main() {
	err := godotenv.Load("../../.env")
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v. Proceeding with environment variables/secrets.", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(cfg.Stage)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := bootstrap.NewDependencies(ctx, cfg, logger.Log)
	if err != nil {
		logger.Fatal("Failed to initialize campaign processor", zap.Error(err))
	}

	job := &campaignJob{
		ctx:       ctx,
		processor: deps.Processor,
		logger:    logger.Log,
	}
	if cfg.QueueURL != "" {
		job.queue = awsclient.NewSQSRunQueue(deps.AWSConfig, cfg.QueueURL, logger.Log)
		logger.Info("Campaign runs will be enqueued", zap.String("queue_url", cfg.QueueURL))
	} else {
		logger.Info("No campaign queue configured, runs execute inline")
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	entryID, err := scheduler.AddJob(cfg.Schedule, job)
	if err != nil {
		logger.Fatal("Invalid campaign schedule", zap.String("schedule", cfg.Schedule), zap.Error(err))
	}
	scheduler.Start()

	logger.Info("Campaign scheduler started",
		zap.String("stage", cfg.Stage),
		zap.String("schedule", cfg.Schedule),
		zap.Time("next_run", scheduler.Entry(entryID).Next),
		zap.String("instance_id", uuid.New().String()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down campaign scheduler", zap.String("signal", sig.String()))

	stopped := scheduler.Stop()
	select {
	case <-stopped.Done():
		logger.Info("Campaign scheduler stopped")
	case <-time.After(shutdownTimeout):
		logger.Warn("Timed out waiting for running campaign to finish")
	}
	cancel()
}
