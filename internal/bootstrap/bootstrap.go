package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	awsclient "github.com/staybright/offseason-campaigns/internal/client/aws"
	"github.com/staybright/offseason-campaigns/internal/client/mailer"
	"github.com/staybright/offseason-campaigns/internal/config"
	"github.com/staybright/offseason-campaigns/internal/dataset"
	"github.com/staybright/offseason-campaigns/internal/processor"
	"github.com/staybright/offseason-campaigns/internal/services"
)

// Dependencies holds everything a campaign binary needs after startup
type Dependencies struct {
	Config    *config.Config
	AWSConfig aws.Config
	Processor *processor.CampaignProcessor
}

// NewDependencies loads the AWS config, resolves the mail API key and wires
// the campaign processor.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	awsCfg, err := awsclient.LoadConfig(ctx, cfg.IsLocal())
	if err != nil {
		return nil, err
	}

	secretsClient := awsclient.NewSecretsManagerClient(awsCfg, logger)
	apiKey, err := secretsClient.GetSecretString(ctx, config.EnvMailAPIKeyARN, config.EnvMailAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", config.EnvMailAPIKey, err)
	}

	mailClient := mailer.NewClient(cfg.MailAPIURL, apiKey,
		mailer.WithTimeout(cfg.MailTimeout),
		mailer.WithLogger(logger),
	)

	pathStyle := cfg.IsLocal() && os.Getenv(awsclient.LocalEndpointEnvVar) != ""
	loader := dataset.NewLoader(awsclient.NewS3Client(awsCfg, pathStyle), logger)

	emailService := services.NewEmailService(mailClient, logger,
		services.WithSubject(cfg.MailSubject),
		services.WithRecipientDomain(cfg.RecipientDomain),
	)

	campaignProcessor := processor.NewCampaignProcessor(
		loader,
		services.NewSegmentationService(logger),
		services.NewSeasonService(logger),
		emailService,
		logger,
		cfg.DatasetPath,
	)

	return &Dependencies{
		Config:    cfg,
		AWSConfig: awsCfg,
		Processor: campaignProcessor,
	}, nil
}
