package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/types/business"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSRunQueue publishes campaign run requests to the processor's queue.
type SQSRunQueue struct {
	svc      sqsAPI
	queueURL string
	logger   *zap.Logger
}

// NewSQSRunQueue creates a run queue publisher for queueURL.
func NewSQSRunQueue(cfg aws.Config, queueURL string, logger *zap.Logger) *SQSRunQueue {
	return newSQSRunQueue(sqs.NewFromConfig(cfg), queueURL, logger)
}

func newSQSRunQueue(svc sqsAPI, queueURL string, logger *zap.Logger) *SQSRunQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSRunQueue{svc: svc, queueURL: queueURL, logger: logger}
}

// EnqueueRun sends req as a JSON message and returns the SQS message id.
func (q *SQSRunQueue) EnqueueRun(ctx context.Context, req business.RunRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run request: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	}
	if req.Label != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"label": {
				DataType:    aws.String("String"),
				StringValue: aws.String(req.Label),
			},
		}
	}

	out, err := q.svc.SendMessage(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue run request: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	q.logger.Info("Enqueued campaign run",
		zap.String("queue_url", q.queueURL),
		zap.String("message_id", messageID),
		zap.String("label", req.Label),
	)
	return messageID, nil
}
