package kafka_test

import (
	"testing"

	"wsb/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:     "42:START",
		Value:   map[string]any{"reservation_id": 42},
		Headers: map[string]string{"event": "START"},
	}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)

	assert.Equal(t, []byte("42:START"), out.Key)
	assert.JSONEq(t, `{"reservation_id":42}`, string(out.Value))
	require.Len(t, out.Headers, 1)
	assert.Equal(t, "event", out.Headers[0].Key)
	assert.Equal(t, []byte("START"), out.Headers[0].Value)
}

func TestMessage_ToKafkaMessageUnsupportedValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}
