package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/rule"
)

func TestDefaultsValidateOnceSecretIsSet(t *testing.T) {
	cfg := configs.Defaults()

	assert.Error(t, rule.ValidateStruct(cfg), "jwt_secret is required")

	cfg.Auth.JWTSecret = "s3cret"
	require.NoError(t, rule.ValidateStruct(cfg))

	assert.Equal(t, "/hydrogen-service", cfg.App.BasePath())
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, configs.DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.MQ.Redis.Block)
	assert.Equal(t, configs.KVTypeMemory, cfg.KV.Type)
	assert.Equal(t, configs.MQTypeGoChannel, cfg.MQ.Type)
}

func TestInitConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
app:
  name: media
  env: test
server:
  port: 7000
  reload_config: false
  write_timeout: 90s
auth:
  jwt_secret: from-file
kv:
  type: redis
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hydrogen.yaml"), yaml, 0o600))

	t.Setenv("HYDROGEN_AUTH_JWT_SECRET", "from-env")

	require.NoError(t, configs.InitConfig(dir))

	cfg := configs.GetConfig()
	assert.Equal(t, "/media-service", cfg.App.BasePath())
	assert.Equal(t, "Media", cfg.App.DisplayName())
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, configs.KVTypeRedis, cfg.KV.Type)
	assert.Equal(t, "localhost:6379", cfg.KV.Redis.Addr)
}

func TestGetConfigReturnsCopy(t *testing.T) {
	a := configs.GetConfig()
	a.App.Name = "mutated"

	assert.NotEqual(t, "mutated", configs.GetConfig().App.Name)
}

func TestMaskedHidesSecrets(t *testing.T) {
	cfg := configs.Defaults()
	cfg.Auth.JWTSecret = "jwt"
	cfg.DB.Password = "db"
	cfg.MQ.NATS.Password = "nats"
	cfg.KV.Redis.Password = ""

	m := cfg.Masked()
	assert.Equal(t, "******", m.Auth.JWTSecret)
	assert.Equal(t, "******", m.DB.Password)
	assert.Equal(t, "******", m.MQ.NATS.Password)
	assert.Empty(t, m.KV.Redis.Password)
	assert.Equal(t, "jwt", cfg.Auth.JWTSecret)
}

func TestCircuitBreakerShouldTrip(t *testing.T) {
	cb := configs.CircuitBreakerConfig{FailureRate: 0.5, MinRequests: 4}

	assert.False(t, cb.ShouldTrip(3, 3))
	assert.False(t, cb.ShouldTrip(4, 1))
	assert.True(t, cb.ShouldTrip(4, 2))
	assert.False(t, cb.ShouldTrip(0, 0))
}

func TestDBConfigDSN(t *testing.T) {
	pg := configs.DBConfig{Type: configs.Pg, Host: "db", Port: 5432, User: "u", Password: "p", Database: "h", SSLMode: "disable"}
	assert.Equal(t, configs.PostgreSQL, pg.Normalize())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=h sslmode=disable", pg.GetDSN())

	my := configs.DBConfig{Type: configs.MariaDB, Host: "db", Port: 3306, User: "u", Password: "p", Database: "h"}
	assert.Contains(t, my.GetDSN(), "u:p@tcp(db:3306)/h?")

	override := configs.DBConfig{Type: configs.SQLite, DSN: "file::memory:"}
	assert.Equal(t, "file::memory:", override.GetDSN())
}
