package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc    secretsAPI
	logger *zap.Logger
}

// NewSecretsManagerClient creates a Secrets Manager client from a loaded AWS config.
func NewSecretsManagerClient(cfg aws.Config, logger *zap.Logger) *SecretsManagerClient {
	return newSecretsManagerClient(secretsmanager.NewFromConfig(cfg), logger)
}

func newSecretsManagerClient(svc secretsAPI, logger *zap.Logger) *SecretsManagerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecretsManagerClient{svc: svc, logger: logger}
}

// GetSecretString fetches a secret using the ARN held in secretArnEnvVar.
// If the ARN is unset or the fetch fails it falls back to the plain value of
// fallbackEnvVar. Secrets stored as a single-key JSON object are unwrapped to
// that key's value.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)

	if secretArn != "" {
		c.logger.Debug("Attempting to fetch secret from Secrets Manager", zap.String("arnEnvVar", secretArnEnvVar), zap.String("secretArn", secretArn))

		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			fetched := *result.SecretString

			var secretJSON map[string]string
			jsonErr := json.Unmarshal([]byte(fetched), &secretJSON)
			if jsonErr == nil && len(secretJSON) == 1 {
				for key, value := range secretJSON {
					c.logger.Info("Fetched secret from Secrets Manager (single-key JSON)",
						zap.String("secretArn", secretArn),
						zap.String("jsonKey", key),
					)
					return value, nil
				}
			}

			if jsonErr == nil {
				c.logger.Warn("Secret was JSON but not single-key format, returning raw JSON string",
					zap.String("secretArn", secretArn),
					zap.Int("keyCount", len(secretJSON)),
				)
			} else {
				c.logger.Info("Fetched secret from Secrets Manager (plain text)", zap.String("secretArn", secretArn))
			}
			return fetched, nil
		}

		c.logger.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("secretArnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err),
		)
	} else {
		c.logger.Debug("Secret ARN environment variable not set, falling back to direct env var",
			zap.String("arnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
		)
	}

	if secretValue := os.Getenv(fallbackEnvVar); secretValue != "" {
		c.logger.Info("Using secret value from direct environment variable", zap.String("envVar", fallbackEnvVar))
		return secretValue, nil
	}

	return "", fmt.Errorf("secret not found using ARN env var '%s' or direct env var '%s'", secretArnEnvVar, fallbackEnvVar)
}
