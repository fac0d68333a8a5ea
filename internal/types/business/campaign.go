package business

import "fmt"

// DeliveryStatus is the outcome of one recipient's send.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// OfferData feeds the offer email template.
type OfferData struct {
	UserID         string
	UserTier       UserTier
	Discount       string
	SeasonCategory SeasonCategory
}

// RecipientResult records what happened when emailing one user.
type RecipientResult struct {
	UserID     string         `json:"user_id"`
	To         string         `json:"to"`
	Tier       UserTier       `json:"tier"`
	Discount   string         `json:"discount"`
	Status     DeliveryStatus `json:"status"`
	StatusCode int            `json:"status_code,omitempty"`
	MessageID  string         `json:"message_id,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// Sent reports whether the provider accepted the email.
func (r RecipientResult) Sent() bool {
	return r.Status == DeliverySent
}

// Err returns the failure as an error, or nil for a delivered email.
func (r RecipientResult) Err() error {
	if r.Sent() {
		return nil
	}
	return fmt.Errorf("user %s: %s", r.UserID, r.Reason)
}

// RunRequest asks for one campaign run. Empty fields fall back to configured defaults.
type RunRequest struct {
	DatasetPath string `json:"dataset_path,omitempty"`
	Label       string `json:"label,omitempty"`
}
