package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/bootstrap"
	"github.com/staybright/offseason-campaigns/internal/config"
	"github.com/staybright/offseason-campaigns/internal/helpers"
	"github.com/staybright/offseason-campaigns/internal/logger"
	"github.com/staybright/offseason-campaigns/internal/processor"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// Application holds all dependencies for the Lambda handler
type Application struct {
	campaignProcessor *processor.CampaignProcessor
	logger            *zap.Logger
}

// HandleRequest is the actual Lambda handler function. It accepts scheduled
// events and SQS events carrying run requests. Failed SQS records are reported
// as batch item failures so only they are redelivered; a failed scheduled run
// fails the invocation.
func (app *Application) HandleRequest(ctx context.Context, payload json.RawMessage) (events.SQSEventResponse, error) {
	var response events.SQSEventResponse

	runs, err := processor.RunRequestsFromEvent(payload)
	if err != nil {
		app.logger.Error("Error decoding trigger payload", zap.Error(err))
		return response, err
	}

	app.logger.Info("Starting campaign processor execution", zap.Int("runs", len(runs)))

	var result *multierror.Error
	for _, run := range runs {
		err := run.DecodeErr
		if err == nil {
			err = app.run(ctx, run.Request)
		} else {
			app.logger.Error("Error decoding run request", zap.String("message_id", run.MessageID), zap.Error(err))
		}
		if err == nil {
			continue
		}
		if run.MessageID != "" {
			response.BatchItemFailures = append(response.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: run.MessageID,
			})
			continue
		}
		result = multierror.Append(result, err)
	}

	if len(response.BatchItemFailures) > 0 {
		app.logger.Warn("Reporting failed SQS records", zap.Int("failed_records", len(response.BatchItemFailures)))
	}
	return response, result.ErrorOrNil()
}

// LocalHandleRequest is for local development testing
func (app *Application) LocalHandleRequest(ctx context.Context) error {
	_, err := app.HandleRequest(ctx, nil)
	return err
}

func main() {
	// Load .env file for local development
	err := godotenv.Load("../../.env")
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v. Proceeding with environment variables/secrets.", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(cfg.Stage)
	logger.Info("Lambda Cold Start: Initializing campaign processor for stage", zap.String("stage", cfg.Stage))
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	deps, err := bootstrap.NewDependencies(ctx, cfg, logger.Log)
	if err != nil {
		logger.Fatal("Failed to initialize campaign processor", zap.Error(err))
	}

	app := &Application{
		campaignProcessor: deps.Processor,
		logger:            logger.Log,
	}

	if cfg.Stage == helpers.StageLocal {
		// Local development - run once
		if err := app.LocalHandleRequest(ctx); err != nil {
			logger.Fatal("Error in LocalHandleRequest", zap.Error(err))
		}
	} else {
		// AWS Lambda environment
		lambda.Start(app.HandleRequest)
	}
}
