package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/client/mailer"
	"github.com/staybright/offseason-campaigns/internal/constants"
	"github.com/staybright/offseason-campaigns/internal/interfaces"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

// EmailService renders offers and sends them one user at a time
type EmailService struct {
	sender          interfaces.EmailSender
	logger          *zap.Logger
	subject         string
	recipientDomain string
}

// EmailServiceOption configures the email service
type EmailServiceOption func(*EmailService)

// WithSubject overrides the campaign subject line
func WithSubject(subject string) EmailServiceOption {
	return func(s *EmailService) {
		if subject != "" {
			s.subject = subject
		}
	}
}

// WithRecipientDomain sets the domain for users without an email on record
func WithRecipientDomain(domain string) EmailServiceOption {
	return func(s *EmailService) {
		if domain != "" {
			s.recipientDomain = domain
		}
	}
}

// NewEmailService creates an email service on top of a mail sender
func NewEmailService(sender interfaces.EmailSender, logger *zap.Logger, options ...EmailServiceOption) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EmailService{
		sender:          sender,
		logger:          logger,
		subject:         constants.DefaultMailSubject,
		recipientDomain: constants.DefaultRecipientDomain,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// RecipientAddress is the user's email on record, or a synthetic
// user_<id>@<domain> address.
func (s *EmailService) RecipientAddress(profile business.UserProfile) string {
	if profile.Email != "" {
		return profile.Email
	}
	return fmt.Sprintf("user_%s@%s", profile.UserID, s.recipientDomain)
}

// SendOffer renders and sends the offer for one user. Failures are reported
// in the result rather than returned.
func (s *EmailService) SendOffer(ctx context.Context, profile business.UserProfile, season business.SeasonCategory) business.RecipientResult {
	result := business.RecipientResult{
		UserID: profile.UserID,
		To:     s.RecipientAddress(profile),
		Tier:   profile.Tier,
		Status: business.DeliveryFailed,
	}

	discount, err := LookupDiscount(profile.Tier, season)
	if err != nil {
		result.Reason = err.Error()
		s.logFailure(result, err)
		return result
	}
	result.Discount = discount

	content, err := RenderOffer(business.OfferData{
		UserID:         profile.UserID,
		UserTier:       profile.Tier,
		Discount:       discount,
		SeasonCategory: season,
	})
	if err != nil {
		result.Reason = err.Error()
		s.logFailure(result, err)
		return result
	}

	delivery, err := s.sender.SendEmail(ctx, interfaces.EmailMessage{
		To:      result.To,
		Subject: s.subject,
		Content: content,
	})
	if delivery != nil {
		result.StatusCode = delivery.StatusCode
		result.MessageID = delivery.MessageID
	}
	if err != nil {
		var httpErr *mailer.HTTPError
		if errors.As(err, &httpErr) {
			result.StatusCode = httpErr.StatusCode
			result.Reason = fmt.Sprintf("mail endpoint returned status %d", httpErr.StatusCode)
		} else {
			result.Reason = err.Error()
		}
		s.logFailure(result, err)
		return result
	}

	result.Status = business.DeliverySent
	s.logger.Info("Email sent to user",
		zap.String("user_id", result.UserID),
		zap.String("tier", string(result.Tier)),
		zap.String("discount", result.Discount),
		zap.String("message_id", result.MessageID),
	)
	return result
}

// SendCampaign emails every profile in order. The returned error aggregates
// per-user failures and is nil when every send succeeded; a failed user never
// stops the users after it.
func (s *EmailService) SendCampaign(ctx context.Context, profiles []business.UserProfile, season business.SeasonCategory) ([]business.RecipientResult, error) {
	results := make([]business.RecipientResult, 0, len(profiles))
	var failures *multierror.Error

	for _, profile := range profiles {
		result := s.SendOffer(ctx, profile, season)
		results = append(results, result)
		if err := result.Err(); err != nil {
			failures = multierror.Append(failures, err)
		}
	}

	return results, failures.ErrorOrNil()
}

func (s *EmailService) logFailure(result business.RecipientResult, err error) {
	s.logger.Warn("Failed to send email to user",
		zap.String("user_id", result.UserID),
		zap.String("tier", string(result.Tier)),
		zap.Int("status_code", result.StatusCode),
		zap.Error(err),
	)
}
