package batchline

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/batchlinehq/batchline/config"
	"github.com/batchlinehq/batchline/model"
)

func TestGetEventFromStatus(t *testing.T) {
	tests := []struct {
		status model.Status
		event  string
	}{
		{model.StatusPlanned, "transaction.planned"},
		{model.StatusInProgress, "transaction.in_progress"},
		{model.StatusProductionCompleted, "transaction.production_completed"},
		{model.StatusWashing, "transaction.washing"},
		{model.StatusWashingCompleted, "transaction.washing_completed"},
		{model.StatusCompleted, "transaction.completed"},
		{model.StatusCancelled, "transaction.cancelled"},
		{model.Status("Bogus"), "transaction.unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.event, getEventFromStatus(tt.status))
	}
}

func TestProcessHTTPWebhook(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{
		Notification: config.Notification{},
	})
	conf, err := config.Fetch()
	assert.NoError(t, err)
	conf.Notification.Webhook.Url = "http://example.com/hooks"
	conf.Notification.Webhook.Headers = map[string]string{"X-Signature": "shared-secret"}

	var received http.Header
	httpmock.RegisterResponder("POST", "http://example.com/hooks",
		func(req *http.Request) (*http.Response, error) {
			received = req.Header
			return httpmock.NewJsonResponse(200, map[string]interface{}{"ok": true})
		})

	err = processHTTP(NewWebhook{Event: "transaction.completed", Payload: map[string]string{"id": "txn_1"}})
	assert.NoError(t, err)
	assert.Equal(t, "shared-secret", received.Get("X-Signature"))
	assert.Equal(t, "application/json", received.Get("Content-Type"))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestProcessHTTPWebhookClientErrorNotRetried(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})
	conf, err := config.Fetch()
	assert.NoError(t, err)
	conf.Notification.Webhook.Url = "http://example.com/hooks"

	httpmock.RegisterResponder("POST", "http://example.com/hooks",
		httpmock.NewStringResponder(410, "gone"))

	err = processHTTP(NewWebhook{Event: "transaction.cancelled"})
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSendWebhookSkipsWithoutURL(t *testing.T) {
	d, _, _ := newTestBatchline(t)

	txn := &model.Transaction{TransactionID: "txn_1", Status: model.StatusCompleted}
	err := d.SendWebhook(context.Background(), txn)
	assert.NoError(t, err)
}
