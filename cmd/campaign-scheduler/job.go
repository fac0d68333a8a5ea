package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/interfaces"
	"github.com/staybright/offseason-campaigns/internal/processor"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

type campaignRunner interface {
	Run(ctx context.Context, req business.RunRequest) (*processor.ProcessingResults, error)
}

// campaignJob is the cron job fired on every schedule tick
type campaignJob struct {
	ctx       context.Context
	processor campaignRunner
	queue     interfaces.RunQueue
	logger    *zap.Logger
	now       func() time.Time
}

// Run implements cron.Job
func (j *campaignJob) Run() {
	if err := j.tick(j.ctx); err != nil {
		j.logger.Error("Scheduled campaign failed", zap.Error(err))
	}
}

func (j *campaignJob) tick(ctx context.Context) error {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	req := business.RunRequest{Label: "cron:" + now().UTC().Format("2006-01")}

	if j.queue != nil {
		messageID, err := j.queue.EnqueueRun(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to enqueue campaign run: %w", err)
		}
		j.logger.Info("Enqueued campaign run", zap.String("label", req.Label), zap.String("message_id", messageID))
		return nil
	}

	results, err := j.processor.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to run campaign: %w", err)
	}
	j.logger.Info("Scheduled campaign completed",
		zap.String("run_id", results.RunID),
		zap.Int("sent", results.Sent),
		zap.Int("failed", results.Failed),
	)
	return nil
}
