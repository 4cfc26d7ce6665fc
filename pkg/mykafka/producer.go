package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicCartEvents = "cart_events"
	TopicUserEvents = "user_events"
)

// DefaultPublishTimeout bounds how long a request waits on the broker.
const DefaultPublishTimeout = 500 * time.Millisecond

// Producer publishes JSON events. A Producer built without brokers is a no-op.
type Producer struct {
	writer *kafka.Writer
	topics map[string]struct{}

	PublishTimeout time.Duration
}

func NewProducer(brokers []string, topics []string) (*Producer, error) {
	allowed := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		allowed[t] = struct{}{}
	}
	if len(brokers) == 0 {
		return &Producer{topics: allowed}, nil
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("kafka: no topics configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{writer: w, topics: allowed, PublishTimeout: DefaultPublishTimeout}, nil
}

func (p *Producer) Enabled() bool {
	return p != nil && p.writer != nil
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if !p.Enabled() {
		return nil
	}
	msg, err := p.message(topic, key, event)
	if err != nil {
		return err
	}
	if p.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.PublishTimeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) message(topic, key string, event any) (kafka.Message, error) {
	if _, ok := p.topics[topic]; !ok {
		return kafka.Message{}, fmt.Errorf("kafka: unknown topic %q", topic)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}, nil
}

func (p *Producer) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
