package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dayflow/internal/config"

	"github.com/stretchr/testify/assert"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dayflow.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("yaml with env override", func(t *testing.T) {
		path := writeYAML(t, `
database:
  user: dayflow
  name: dayflow
  port: "5433"
auth:
  jwt_secret: from-file
leave:
  default_paid_leave: 15
outbox:
  poll_interval: 1s
`)
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("DB_NAME", "dayflow_test")
		t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092")
		t.Setenv("MAIL_FROM", "")

		cfg, err := config.Load(path)

		assert.NoError(t, err)
		assert.Equal(t, "dayflow_test", cfg.Database.Name)
		assert.Equal(t, "5433", cfg.Database.Port)
		assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
		assert.Equal(t, 15, cfg.Leave.DefaultPaidLeave)
		assert.Equal(t, 6, cfg.Leave.DefaultSickLeave)
		assert.Equal(t, 0, cfg.Leave.DefaultUnpaidLeave)
		assert.Equal(t, time.Second, cfg.Outbox.PollInterval)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
		assert.True(t, cfg.Kafka.Enabled())
		assert.Equal(t, "no-reply@dayflow.local", cfg.Mail.From)
		assert.Contains(t, cfg.Database.URL(), "postgres://dayflow:@localhost:5433/dayflow_test")
	})

	t.Run("negative missing jwt secret", func(t *testing.T) {
		path := writeYAML(t, "database:\n  user: dayflow\n  name: dayflow\n")
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load(path)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})

	t.Run("negative bad integer override", func(t *testing.T) {
		path := writeYAML(t, "database:\n  user: dayflow\n  name: dayflow\nauth:\n  jwt_secret: s\n")
		t.Setenv("LEAVE_DEFAULT_SICK", "six")

		_, err := config.Load(path)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LEAVE_DEFAULT_SICK")
	})

	t.Run("negative missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Error(t, err)
	})
}
