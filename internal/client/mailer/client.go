package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/interfaces"
)

// ClientOption represents a function that can modify the mail client
type ClientOption func(*Client)

// HTTPError represents a non-200 answer from the mail endpoint
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s: %s", e.Method, e.URL, e.StatusCode, e.Status, e.Body)
}

// Client posts campaign emails to a send-email endpoint authenticated with a bearer token.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	logger   *zap.Logger
}

// sendEmailResponse is the optional JSON payload some providers return
type sendEmailResponse struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
}

// NewClient creates a mail client for the given endpoint and API key.
// Requests carry no timeout unless WithTimeout is supplied.
func NewClient(endpoint, apiKey string, options ...ClientOption) *Client {
	c := &Client{
		http: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   zap.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// WithTimeout sets the timeout for all requests; zero leaves requests unbounded
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient swaps the underlying transport client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
	}
}

// SendEmail posts one message. Only HTTP 200 counts as delivered; any other
// status comes back as an *HTTPError alongside the delivery describing it.
func (c *Client) SendEmail(ctx context.Context, msg interfaces.EmailMessage) (*interfaces.EmailDelivery, error) {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("X-Entity-Ref-ID", uuid.New().String()).
		SetBody(msg).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("mail request failed",
			zap.String("url", c.endpoint),
			zap.String("to", msg.To),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("mail request failed: %w", err)
	}

	delivery := &interfaces.EmailDelivery{StatusCode: resp.StatusCode()}

	if resp.StatusCode() != http.StatusOK {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			URL:        c.endpoint,
			Method:     http.MethodPost,
			Body:       strings.TrimSpace(string(resp.Body())),
		}
		c.logger.Warn("mail endpoint rejected request",
			zap.String("url", c.endpoint),
			zap.String("to", msg.To),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return delivery, httpErr
	}

	var body sendEmailResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		delivery.MessageID = body.ID
		if delivery.MessageID == "" {
			delivery.MessageID = body.MessageID
		}
	}

	c.logger.Debug("mail request successful",
		zap.String("url", c.endpoint),
		zap.String("to", msg.To),
		zap.String("message_id", delivery.MessageID),
		zap.Duration("duration", time.Since(start)))

	return delivery, nil
}
