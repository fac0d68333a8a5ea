package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/client/mailer"
	"github.com/staybright/offseason-campaigns/internal/interfaces"
	"github.com/staybright/offseason-campaigns/internal/mocks"
	"github.com/staybright/offseason-campaigns/internal/services"
	"github.com/staybright/offseason-campaigns/internal/types/business"
)

func TestEmailService_SendOffer(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	svc := services.NewEmailService(sender, zap.NewNop())
	ctx := context.Background()

	sender.EXPECT().
		SendEmail(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, msg interfaces.EmailMessage) (*interfaces.EmailDelivery, error) {
			assert.Equal(t, "user_42@example.com", msg.To)
			assert.Equal(t, "Special Offer Just for You!", msg.Subject)
			assert.Contains(t, msg.Content, "40% OFF")
			assert.Contains(t, msg.Content, "42")
			return &interfaces.EmailDelivery{StatusCode: http.StatusOK, MessageID: "msg-1"}, nil
		}).
		Times(1)

	result := svc.SendOffer(ctx, business.UserProfile{UserID: "42", Tier: business.UserTierHigh}, business.SeasonLow)

	assert.True(t, result.Sent())
	assert.NoError(t, result.Err())
	assert.Equal(t, "40% OFF", result.Discount)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "msg-1", result.MessageID)
}

func TestEmailService_SendOffer_Options(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	svc := services.NewEmailService(sender, zap.NewNop(),
		services.WithSubject("Winter deals"),
		services.WithRecipientDomain("guests.hotel.test"),
	)

	var sent []interfaces.EmailMessage
	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg interfaces.EmailMessage) (*interfaces.EmailDelivery, error) {
			sent = append(sent, msg)
			return &interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil
		}).
		Times(2)

	svc.SendOffer(context.Background(), business.UserProfile{UserID: "7", Tier: business.UserTierLow}, business.SeasonHigh)
	svc.SendOffer(context.Background(), business.UserProfile{UserID: "8", Email: "guest@hotel.test", Tier: business.UserTierLow}, business.SeasonHigh)

	require.Len(t, sent, 2)
	assert.Equal(t, "user_7@guests.hotel.test", sent[0].To)
	assert.Equal(t, "guest@hotel.test", sent[1].To)
	assert.Equal(t, "Winter deals", sent[0].Subject)
	assert.Contains(t, sent[0].Content, "5% OFF")
}

func TestEmailService_SendCampaign_FailureDoesNotStopBatch(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	svc := services.NewEmailService(sender, zap.NewNop())
	ctx := context.Background()

	profiles := []business.UserProfile{
		{UserID: "1", Tier: business.UserTierHigh},
		{UserID: "2", Tier: business.UserTierMedium},
		{UserID: "3", Tier: business.UserTierLow},
		{UserID: "4", Tier: business.UserTierLow},
	}

	gomock.InOrder(
		sender.EXPECT().
			SendEmail(ctx, gomock.Any()).
			Return(&interfaces.EmailDelivery{StatusCode: http.StatusServiceUnavailable}, &mailer.HTTPError{
				StatusCode: http.StatusServiceUnavailable,
				Status:     "503 Service Unavailable",
				Method:     http.MethodPost,
			}),
		sender.EXPECT().
			SendEmail(ctx, gomock.Any()).
			Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil),
		sender.EXPECT().
			SendEmail(ctx, gomock.Any()).
			Return(nil, errors.New("connection reset")),
		sender.EXPECT().
			SendEmail(ctx, gomock.Any()).
			Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil),
	)

	results, err := svc.SendCampaign(ctx, profiles, business.SeasonMedium)

	require.Len(t, results, 4)
	assert.Equal(t, business.DeliveryFailed, results[0].Status)
	assert.Equal(t, http.StatusServiceUnavailable, results[0].StatusCode)
	assert.Equal(t, "mail endpoint returned status 503", results[0].Reason)
	assert.Equal(t, "30% OFF", results[0].Discount)

	assert.True(t, results[1].Sent())
	assert.Equal(t, "20% OFF", results[1].Discount)

	assert.Equal(t, business.DeliveryFailed, results[2].Status)
	assert.Equal(t, "connection reset", results[2].Reason)

	assert.True(t, results[3].Sent())

	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestEmailService_SendCampaign_AllSent(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	svc := services.NewEmailService(sender, zap.NewNop())

	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil).
		Times(2)

	results, err := svc.SendCampaign(context.Background(), []business.UserProfile{
		{UserID: "1", Tier: business.UserTierHigh},
		{UserID: "2", Tier: business.UserTierLow},
	}, business.SeasonHigh)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestEmailService_SendOffer_UnknownTier(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	svc := services.NewEmailService(sender, zap.NewNop())

	result := svc.SendOffer(context.Background(), business.UserProfile{UserID: "1", Tier: "Gold"}, business.SeasonHigh)

	assert.False(t, result.Sent())
	assert.Contains(t, result.Reason, "unknown user tier")
}
