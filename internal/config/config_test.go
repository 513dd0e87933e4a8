package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stance/internal/config"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.RobotLite3, cfg.Robot)
	assert.Equal(t, 2*time.Millisecond, cfg.Period)
	assert.Equal(t, domain.ModeStandby, cfg.StartMode)
	assert.Equal(t, domain.ModeSafeStop, cfg.SafeMode)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
robot: x30
period: 5ms
diagnostic_interval: 250ms
params:
  safety:
    max_roll: 0.4
  stand:
    duration: 2
http:
  addr: ":8080"
redis:
  addr: "localhost:6379"
  stream: "robot:telemetry"
log:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.RobotX30, cfg.Robot)
	assert.Equal(t, 5*time.Millisecond, cfg.Period)
	assert.Equal(t, 250*time.Millisecond, cfg.DiagnosticInterval)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "robot:telemetry", cfg.Redis.Stream)
	assert.Equal(t, "stance:command", cfg.Redis.Channel, "unset keys keep their default")
	assert.Equal(t, "json", cfg.Log.Format)

	safety, ok := cfg.Params["safety"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.4, safety["max_roll"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STANCE_ROBOT", "x30")
	t.Setenv("STANCE_PERIOD", "10ms")
	t.Setenv("STANCE_REDIS_ADDR", "redis:6379")
	t.Setenv("STANCE_REDIS_DB", "2")
	t.Setenv("STANCE_REDIS_MAX_LEN", "500")
	t.Setenv("STANCE_START_MODE", "stand")
	t.Setenv("STANCE_LOG_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.RobotX30, cfg.Robot)
	assert.Equal(t, domain.ModeStand, cfg.StartMode)
	assert.Equal(t, int64(500), cfg.Redis.MaxLen)
	assert.Equal(t, 10*time.Millisecond, cfg.Period)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
period: 5ms
http:
  addr: ":8080"
`)
	t.Setenv("STANCE_HTTP_ADDR", ":9090")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, cfg.Period)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestConfig_Dump(t *testing.T) {
	cfg := config.Default()
	cfg.Period = 4 * time.Millisecond
	cfg.Params["walk"] = map[string]any{"max_vx": 0.5}

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))
	assert.Contains(t, buf.String(), "period: 4ms")

	reloaded, err := config.Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg.Period, reloaded.Period)
	assert.Equal(t, cfg.Redis, reloaded.Redis)
	assert.Equal(t, 0.5, reloaded.Params["walk"].(map[string]any)["max_vx"])
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "robot: [x30"))
		assert.Error(t, err)
	})

	t.Run("Bad env duration", func(t *testing.T) {
		t.Setenv("STANCE_PERIOD", "fast")
		_, err := config.Load("")
		assert.Error(t, err)
	})
}

func TestValidate_JoinsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Robot = "spot"
	cfg.Period = 0
	cfg.SafeMode = cfg.StartMode
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"robot", "period", "start_mode", "log.level", "log.format"} {
		assert.Contains(t, msg, want)
	}
}

func TestLoad_NATS(t *testing.T) {
	path := writeConfig(t, `
nats:
  url: "nats://127.0.0.1:4222"
  telemetry_subject: "robot1.telemetry"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "robot1.telemetry", cfg.NATS.TelemetrySubject)
	assert.Equal(t, "stance.command", cfg.NATS.CommandSubject)

	t.Run("Env override", func(t *testing.T) {
		t.Setenv("STANCE_NATS_URL", "nats://bus:4222")
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
	})
}

func TestValidate_SingleTransport(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = "localhost:6379"
	cfg.NATS.URL = "nats://localhost:4222"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
