package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/staybright/offseason-campaigns/internal/client/mailer"
	"github.com/staybright/offseason-campaigns/internal/dataset"
	"github.com/staybright/offseason-campaigns/internal/interfaces"
	"github.com/staybright/offseason-campaigns/internal/mocks"
	"github.com/staybright/offseason-campaigns/internal/processor"
	"github.com/staybright/offseason-campaigns/internal/services"
)

func newTestApp(t *testing.T, sender interfaces.EmailSender, defaultDataset string) *Application {
	t.Helper()
	log := zap.NewNop()
	return &Application{
		campaignProcessor: processor.NewCampaignProcessor(
			dataset.NewLoader(nil, log),
			services.NewSegmentationService(log),
			services.NewSeasonService(log),
			services.NewEmailService(sender, log),
			log,
			defaultDataset,
		),
		logger: log,
	}
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookings.csv")
	require.NoError(t, os.WriteFile(path, []byte("user_id,total_revenue,booking_date\n1,10,2024-06-01\n2,20,2024-06-02\n"), 0o600))
	return path
}

func TestApplication_HandleRequest_Scheduled(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	app := newTestApp(t, sender, writeDataset(t))

	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil).
		Times(2)

	payload := json.RawMessage(`{"id":"evt-1","detail-type":"Scheduled Event","source":"aws.events","detail":{}}`)
	response, err := app.HandleRequest(context.Background(), payload)
	assert.NoError(t, err)
	assert.Empty(t, response.BatchItemFailures)
}

func TestApplication_HandleRequest_ScheduledRunFails(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	app := newTestApp(t, sender, filepath.Join(t.TempDir(), "missing.csv"))
	sender.EXPECT().SendEmail(gomock.Any(), gomock.Any()).Times(0)

	_, err := app.HandleRequest(context.Background(), json.RawMessage(`{"id":"evt-1","source":"aws.events"}`))
	assert.Error(t, err)
}

func TestApplication_HandleRequest_SQSContinuesAfterFailedRun(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	app := newTestApp(t, sender, "")
	path := writeDataset(t)

	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil).
		Times(2)

	body, err := json.Marshal(map[string]string{"dataset_path": path})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"Records": []map[string]string{
			{"messageId": "m-1", "body": ""},
			{"messageId": "m-2", "body": string(body)},
		},
	})
	require.NoError(t, err)

	response, err := app.HandleRequest(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m-1"}}, response.BatchItemFailures)
}

func TestApplication_HandleRequest_SQSRedeliveryOnlyRerunsFailedRecord(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	app := newTestApp(t, sender, "")
	path := writeDataset(t)

	// Two users in the good record, sent exactly once across both deliveries.
	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		Return(&interfaces.EmailDelivery{StatusCode: http.StatusOK}, nil).
		Times(2)

	body, err := json.Marshal(map[string]string{"dataset_path": path})
	require.NoError(t, err)
	records := []map[string]string{
		{"messageId": "good", "body": string(body)},
		{"messageId": "bad", "body": `{"dataset_path":"` + filepath.Join(t.TempDir(), "missing.csv") + `"}`},
		{"messageId": "garbled", "body": "not json"},
	}
	first, err := json.Marshal(map[string]any{"Records": records})
	require.NoError(t, err)

	response, err := app.HandleRequest(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, response.BatchItemFailures, 2)

	failed := make(map[string]bool)
	for _, f := range response.BatchItemFailures {
		failed[f.ItemIdentifier] = true
	}
	assert.Equal(t, map[string]bool{"bad": true, "garbled": true}, failed)

	var redelivered []map[string]string
	for _, r := range records {
		if failed[r["messageId"]] {
			redelivered = append(redelivered, r)
		}
	}
	second, err := json.Marshal(map[string]any{"Records": redelivered})
	require.NoError(t, err)

	response, err = app.HandleRequest(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, response.BatchItemFailures, 2)
}

// Send failures are reported in the results, not as a handler error.
func TestApplication_LocalHandleRequest(t *testing.T) {
	sender := mocks.NewMockEmailSenderForTest(t)
	app := newTestApp(t, sender, writeDataset(t))

	sender.EXPECT().
		SendEmail(gomock.Any(), gomock.Any()).
		Return(&interfaces.EmailDelivery{StatusCode: http.StatusInternalServerError}, &mailer.HTTPError{StatusCode: http.StatusInternalServerError}).
		Times(2)

	assert.NoError(t, app.LocalHandleRequest(context.Background()))
}
