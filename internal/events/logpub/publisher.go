// Package logpub records audit events in the structured log when no broker
// is configured.
package logpub

import (
	"context"
	"encoding/json"

	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"go.uber.org/zap"
)

type Publisher struct {
	log *zap.Logger
}

func NewPublisher(log *zap.Logger) *Publisher {
	return &Publisher{log: log.Named("audit")}
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.log.Info("audit event",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.ByteString("event", data),
	)
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
