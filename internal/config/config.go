package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/staybright/offseason-campaigns/internal/constants"
	"github.com/staybright/offseason-campaigns/internal/helpers"
)

// Environment variable names
const (
	EnvStage           = "STAGE"
	EnvDatasetPath     = "DATASET_PATH"
	EnvMailAPIURL      = "MAIL_API_URL"
	EnvMailAPIKey      = "MAIL_API_KEY"
	EnvMailAPIKeyARN   = "MAIL_API_KEY_ARN"
	EnvMailSubject     = "MAIL_SUBJECT"
	EnvRecipientDomain = "RECIPIENT_DOMAIN"
	EnvMailTimeout     = "MAIL_TIMEOUT"
	EnvQueueURL        = "CAMPAIGN_QUEUE_URL"
	EnvSchedule        = "CAMPAIGN_SCHEDULE"
)

// Config is the runtime configuration shared by the campaign binaries.
// The mail API key is not held here; it is resolved through Secrets Manager.
type Config struct {
	Stage           string
	DatasetPath     string
	MailAPIURL      string
	MailSubject     string
	RecipientDomain string
	MailTimeout     time.Duration
	QueueURL        string
	Schedule        string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:           helpers.GetEnvWithDefault(EnvStage, helpers.StageLocal),
		DatasetPath:     strings.TrimSpace(os.Getenv(EnvDatasetPath)),
		MailAPIURL:      strings.TrimSpace(os.Getenv(EnvMailAPIURL)),
		MailSubject:     helpers.GetEnvWithDefault(EnvMailSubject, constants.DefaultMailSubject),
		RecipientDomain: helpers.GetEnvWithDefault(EnvRecipientDomain, constants.DefaultRecipientDomain),
		QueueURL:        strings.TrimSpace(os.Getenv(EnvQueueURL)),
		Schedule:        helpers.GetEnvWithDefault(EnvSchedule, constants.DefaultCampaignSchedule),
	}

	var result *multierror.Error
	if !helpers.IsValidStage(cfg.Stage) {
		result = multierror.Append(result, fmt.Errorf("invalid %s '%s': must be one of %s, %s, %s",
			EnvStage, cfg.Stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal))
	}
	if cfg.DatasetPath == "" {
		result = multierror.Append(result, fmt.Errorf("%s is required", EnvDatasetPath))
	}
	if cfg.MailAPIURL == "" {
		result = multierror.Append(result, fmt.Errorf("%s is required", EnvMailAPIURL))
	}

	timeout, ok := helpers.GetEnvDuration(EnvMailTimeout, constants.DefaultMailTimeout)
	if !ok {
		result = multierror.Append(result, fmt.Errorf("invalid %s '%s'", EnvMailTimeout, os.Getenv(EnvMailTimeout)))
	}
	cfg.MailTimeout = timeout

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsLocal reports whether the binaries run outside AWS.
func (c *Config) IsLocal() bool {
	return c.Stage == helpers.StageLocal
}
