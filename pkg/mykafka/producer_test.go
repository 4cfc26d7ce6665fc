package mykafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_DisabledWithoutBrokers(t *testing.T) {
	p, err := NewProducer(nil, []string{TopicCartEvents})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	require.NoError(t, p.PublishEvent(context.Background(), TopicCartEvents, "alice", map[string]any{"type": "x"}))
	require.NoError(t, p.Close())
}

func TestProducer_NilIsNoop(t *testing.T) {
	var p *Producer
	require.NoError(t, p.PublishEvent(context.Background(), TopicCartEvents, "k", nil))
	require.NoError(t, p.Close())
}

func TestProducer_RequiresTopics(t *testing.T) {
	_, err := NewProducer([]string{"localhost:9092"}, nil)
	require.Error(t, err)
}

func TestProducer_Message(t *testing.T) {
	p, err := NewProducer(nil, []string{TopicCartEvents})
	require.NoError(t, err)

	msg, err := p.message(TopicCartEvents, "alice", map[string]any{"type": "cart_item_added", "qty": 2})
	require.NoError(t, err)
	assert.Equal(t, TopicCartEvents, msg.Topic)
	assert.Equal(t, []byte("alice"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "cart_item_added", decoded["type"])
	assert.EqualValues(t, 2, decoded["qty"])

	_, err = p.message("other_topic", "alice", nil)
	require.Error(t, err)
}

func TestProducer_PublishIsBoundedByTimeout(t *testing.T) {
	// nothing listens on port 1, so the writer would keep retrying
	p, err := NewProducer([]string{"127.0.0.1:1"}, []string{TopicCartEvents})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	assert.Equal(t, DefaultPublishTimeout, p.PublishTimeout)
	p.PublishTimeout = 100 * time.Millisecond

	start := time.Now()
	err = p.PublishEvent(context.Background(), TopicCartEvents, "alice", map[string]any{"type": "cart_item_added"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
