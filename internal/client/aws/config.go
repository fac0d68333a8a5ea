package aws

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LocalEndpointEnvVar points the SDK at an emulator such as LocalStack
const LocalEndpointEnvVar = "AWS_ENDPOINT_URL"

// LoadConfig loads the default AWS configuration chain (environment variables,
// shared config, IAM role). When local is set and an emulator endpoint is
// configured, static test credentials are used instead.
func LoadConfig(ctx context.Context, local bool) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if local && os.Getenv(LocalEndpointEnvVar) != "" {
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
		if os.Getenv("AWS_REGION") == "" {
			opts = append(opts, config.WithRegion("us-east-1"))
		}
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}
