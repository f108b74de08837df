package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestDispatcher_EnqueueInvoice(t *testing.T) {
	mr, rdb := testRedis(t)
	d := NewDispatcher(rdb)

	err := d.EnqueueInvoice(context.Background(), InvoiceJobPayload{BillingID: "b-1"})
	require.NoError(t, err)

	raw, err := mr.Lpop(QueueInvoice)
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "invoice", job.Type)

	var payload InvoiceJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "b-1", payload.BillingID)
}

func TestDispatcher_EnqueueEmail(t *testing.T) {
	mr, rdb := testRedis(t)
	d := NewDispatcher(rdb)

	err := d.EnqueueEmail(context.Background(), EmailJobPayload{
		ToEmail: "ops@acme.test",
		Subject: "Invoice ready",
		Body:    "see attachment",
		PDFPath: "/tmp/invoice_1.pdf",
	})
	require.NoError(t, err)

	raw, err := mr.Lpop(QueueEmail)
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "email", job.Type)

	var payload EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "ops@acme.test", payload.ToEmail)
	assert.Equal(t, "/tmp/invoice_1.pdf", payload.PDFPath)
}

func TestSendToDLQ_RoundTrip(t *testing.T) {
	mr, rdb := testRedis(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"billing_id":"b-9"}`)
	SendToDLQ(ctx, rdb, QueueInvoice, "invoice", payload, "smtp gave up", 3)

	n, err := DLQLength(ctx, rdb, QueueInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	raw, err := mr.Lpop(DLQPrefix + QueueInvoice)
	require.NoError(t, err)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, QueueInvoice, entry.OriginalQueue)
	assert.Equal(t, "smtp gave up", entry.Reason)
	assert.Equal(t, 3, entry.Attempts)
	assert.JSONEq(t, `{"billing_id":"b-9"}`, string(entry.Payload))
}

func TestWithRetry_EventuallySucceeds(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_Exhausted(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}
