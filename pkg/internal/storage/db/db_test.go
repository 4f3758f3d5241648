package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
)

func TestAppendParam(t *testing.T) {
	assert.Equal(t, "file:a.db?_busy_timeout=5000", appendParam("file:a.db", "_busy_timeout", "5000"))
	assert.Equal(t, "file:a?mode=memory&x=1", appendParam("file:a?mode=memory", "x", "1"))
}

func TestRegisteredDBTypes(t *testing.T) {
	types := GetRegisteredDBTypes()
	assert.Contains(t, types, configs.SQLite)
	assert.Contains(t, types, configs.PostgreSQL)
	assert.Contains(t, types, configs.MySQL)
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()

	client, err := OpenMemory(ctx, t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(ctx))
}

func TestNew_UnsupportedType(t *testing.T) {
	_, err := New(context.Background(), &configs.DBConfig{Type: "oracle", DSN: "x"}, false)
	assert.Error(t, err)
}

func TestClient_NilPing(t *testing.T) {
	var c *Client
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
