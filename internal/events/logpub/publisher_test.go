package logpub

import (
	"context"
	"testing"

	"github.com/jrose1022/SubTrack/internal/models/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishLogsEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewPublisher(zap.New(core))

	err := p.Publish(context.Background(), events.TopicPaymentApplied, "tx-1", events.PaymentApplied{
		TransactionID: "tx-1",
		Amount:        decimal.NewFromInt(400),
		Status:        "Partial",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("audit event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "payment_applied", fields["topic"])
	assert.Equal(t, "tx-1", fields["key"])
	assert.Contains(t, fields["event"], `"amount":"400"`)
	assert.Equal(t, "audit", entries[0].LoggerName)
}
