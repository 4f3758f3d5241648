package mq

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
)

func TestNew_DisabledFallsBackToGoChannel(t *testing.T) {
	cfg := configs.Defaults()
	cfg.MQ.Enabled = false
	cfg.MQ.Type = configs.MQTypeNATS

	c, err := New(context.Background(), &cfg.MQ, configs.MetricsConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, configs.MQTypeGoChannel, c.Type())
	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestNew_UnknownType(t *testing.T) {
	cfg := configs.Defaults()
	cfg.MQ.Enabled = true
	cfg.MQ.Type = "kafka"

	_, err := New(context.Background(), &cfg.MQ, configs.MetricsConfig{})
	assert.ErrorContains(t, err, "unsupported mq type")
}

func TestClient_PublishSubscribe(t *testing.T) {
	ps := NewGoChannel(8, nil)
	c := NewClient(configs.MQTypeGoChannel, ps, ps)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := c.Subscribe(ctx, "hydrogen.test")
	require.NoError(t, err)

	require.NoError(t, c.Publish(ctx, "hydrogen.test", message.NewMessage(watermill.NewUUID(), []byte("ping"))))

	select {
	case m := <-ch:
		assert.Equal(t, "ping", string(m.Payload))
		m.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestClient_NilSafe(t *testing.T) {
	var c *Client

	assert.ErrorIs(t, c.Publish(context.Background(), "t"), ErrNotInitialized)
	assert.ErrorIs(t, c.HealthCheck(context.Background()), ErrNotInitialized)
	assert.NoError(t, c.Close())
}

func TestGetRegisteredMQTypes(t *testing.T) {
	assert.Equal(t,
		[]configs.MQType{configs.MQTypeGoChannel, configs.MQTypeNATS, configs.MQTypeRedis},
		GetRegisteredMQTypes())
}

func TestDecodeStreamMessage(t *testing.T) {
	msg, err := decodeStreamMessage(redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			fieldUUID:     "u-1",
			fieldPayload:  `{"songId":3}`,
			fieldMetadata: `{"event":"song.created"}`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", msg.UUID)
	assert.JSONEq(t, `{"songId":3}`, string(msg.Payload))
	assert.Equal(t, "song.created", msg.Metadata.Get("event"))

	_, err = decodeStreamMessage(redis.XMessage{ID: "2-0", Values: map[string]any{}})
	assert.Error(t, err)
}

func TestLoggerAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf)
	adapter := NewLoggerAdapter(&l).With(watermill.LogFields{"topic": "t1"})
	adapter.Info("hello", watermill.LogFields{"n": 2})

	out := buf.String()
	assert.Contains(t, out, `"component":"mq"`)
	assert.Contains(t, out, `"topic":"t1"`)
	assert.Contains(t, out, `"n":2`)
	assert.Contains(t, out, `"message":"hello"`)
}
