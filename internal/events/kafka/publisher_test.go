package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrose1022/SubTrack/internal/models/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicName(t *testing.T) {
	assert.Equal(t, "subtrack.payment_applied", NewPublisher([]string{"localhost:9092"}, "subtrack").topicName("payment_applied"))
	assert.Equal(t, "dues_assessed", NewPublisher([]string{"localhost:9092"}, "").topicName("dues_assessed"))
}

func TestMessageCarriesKeyTopicAndJSON(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "subtrack")
	ev := events.PaymentApplied{
		EventID:       "ev-1",
		TransactionID: "tx-1",
		AuthID:        "ana",
		Amount:        decimal.NewFromInt(400),
		Method:        "Cash",
		AmountPaid:    decimal.NewFromInt(400),
		Balance:       decimal.NewFromInt(600),
		Status:        "Partial",
		AppliedBy:     "admin",
		OccurredAt:    time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC),
	}

	msg, err := p.message(events.TopicPaymentApplied, "tx-1", ev)
	require.NoError(t, err)
	assert.Equal(t, "subtrack.payment_applied", msg.Topic)
	assert.Equal(t, []byte("tx-1"), msg.Key)

	var got events.PaymentApplied
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "tx-1", got.TransactionID)
	assert.Equal(t, "Partial", got.Status)
	assert.True(t, got.Balance.Equal(ev.Balance))
	assert.True(t, got.OccurredAt.Equal(ev.OccurredAt))
}

func TestMessageRejectsUnencodableEvent(t *testing.T) {
	_, err := NewPublisher([]string{"localhost:9092"}, "subtrack").message("x", "k", make(chan int))
	assert.Error(t, err)
}
