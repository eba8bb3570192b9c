package kafka

import (
	"context"
	"encoding/json"

	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/segmentio/kafka-go"
)

// Publisher writes audit events to Kafka. Messages are keyed so that every
// event about one entry lands on the same partition, in order.
type Publisher struct {
	writer *kafka.Writer
	prefix string
}

func NewPublisher(brokers []string, prefix string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		prefix: prefix,
	}
}

func (p *Publisher) topicName(topic string) string {
	if p.prefix == "" {
		return topic
	}
	return p.prefix + "." + topic
}

// message encodes event as JSON on the prefixed topic.
func (p *Publisher) message(topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Topic: p.topicName(topic),
		Key:   []byte(key),
		Value: data,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, event any) error {
	msg, err := p.message(topic, key, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
