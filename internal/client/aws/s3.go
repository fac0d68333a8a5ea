package aws

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3URIScheme prefixes dataset locations stored in S3
const S3URIScheme = "s3://"

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client reads dataset objects from S3.
type S3Client struct {
	svc s3API
}

// NewS3Client creates an S3 client from a loaded AWS config. Emulator
// endpoints need path-style addressing.
func NewS3Client(cfg aws.Config, pathStyle bool) *S3Client {
	return &S3Client{
		svc: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = pathStyle
		}),
	}
}

// GetObject opens the object body. Callers close the returned reader.
func (c *S3Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.svc.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key. ok is false for anything that is not a
// well-formed S3 location.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(uri, S3URIScheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(uri, S3URIScheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
