package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/log"
)

func TestSetupWriterJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer

	log.SetupWriter(configs.LogConfig{Level: "debug", Format: log.FormatJSON}, false, &buf)

	ctx := log.WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", log.RequestID(ctx))

	log.Ctx(ctx).Info().Str("song", "intro").Msg("uploaded")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"song":"intro"`)
	assert.Contains(t, out, `"message":"uploaded"`)
}

func TestSetupWriterLevel(t *testing.T) {
	var buf bytes.Buffer

	log.SetupWriter(configs.LogConfig{Level: "warn", Format: log.FormatJSON}, false, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Logger().Info().Msg("hidden")
	log.Logger().Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGinWriter(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf)
	w := log.NewGinWriter(&l, zerolog.ErrorLevel)

	n, err := w.Write([]byte("  [GIN] boom \n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"message":"[GIN] boom"`)

	buf.Reset()
	_, _ = w.Write([]byte("\n"))
	assert.Empty(t, buf.String())
}

func TestCtxWithoutRequestID(t *testing.T) {
	assert.Empty(t, log.RequestID(context.Background()))
	assert.NotNil(t, log.Ctx(context.Background()))
}
