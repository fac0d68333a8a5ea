package processor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/logger"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// TriggeredRun is one run request decoded from a trigger payload. MessageID
// is set only for runs that arrived as SQS records. DecodeErr is set when the
// record body could not be decoded; such runs must not be executed.
type TriggeredRun struct {
	MessageID string
	Request   business.RunRequest
	DecodeErr error
}

// RunRequestsFromEvent decodes a Lambda trigger payload. SQS events yield one
// run per record, with the record body holding a JSON RunRequest (an empty
// body means "use the defaults"). A bad record body only marks that run. Any other payload, such as an EventBridge
// scheduled event, yields a single default run.
func RunRequestsFromEvent(payload json.RawMessage) ([]TriggeredRun, error) {
	var probe struct {
		Records []json.RawMessage `json:"Records"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &probe); err != nil {
			return nil, fmt.Errorf("failed to decode trigger payload: %w", err)
		}
	}

	if len(probe.Records) == 0 {
		var scheduled events.CloudWatchEvent
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &scheduled); err != nil {
				logger.Debug("Trigger payload is not a scheduled event, using default run request", zap.Error(err))
			}
		}
		req := business.RunRequest{}
		if scheduled.ID != "" {
			req.Label = "scheduled:" + scheduled.ID
		}
		return []TriggeredRun{{Request: req}}, nil
	}

	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(payload, &sqsEvent); err != nil {
		return nil, fmt.Errorf("failed to decode SQS event: %w", err)
	}

	runs := make([]TriggeredRun, 0, len(sqsEvent.Records))
	for _, record := range sqsEvent.Records {
		run := TriggeredRun{MessageID: record.MessageId}
		if body := strings.TrimSpace(record.Body); body != "" {
			if err := json.Unmarshal([]byte(body), &run.Request); err != nil {
				run.DecodeErr = fmt.Errorf("failed to decode run request in message %s: %w", record.MessageId, err)
			}
		}
		if run.Request.Label == "" {
			run.Request.Label = "sqs:" + record.MessageId
		}
		runs = append(runs, run)
	}
	return runs, nil
}
