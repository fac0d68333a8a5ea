package interfaces

import (
	"context"
	"io"

	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// EmailSender delivers one rendered email through the mail provider
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) (*EmailDelivery, error)
}

// EmailMessage is the JSON body posted to the mail endpoint
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// EmailDelivery describes the provider's answer to a send request
type EmailDelivery struct {
	StatusCode int
	MessageID  string
}

// ObjectStore reads dataset objects from blob storage
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// RunQueue hands campaign run requests to the processor
type RunQueue interface {
	EnqueueRun(ctx context.Context, req business.RunRequest) (string, error)
}
