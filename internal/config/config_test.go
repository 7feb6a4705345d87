package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins: ["https://registry.example.edu"]

database:
  url: "postgres://registry@localhost/registry?sslmode=disable"
  max_open_conns: 10
  query_timeout_seconds: 5

schema:
  name: "registry"
  students_table: "student_records"
  columns:
    gender: "sex"
    phone: "mobile"

taxonomy:
  normalizer: "local"

audience:
  max_recipients: 200
  phone_columns: ["emergency_phone", "phone"]
  placeholder_name: "Student"

logging:
  level: "debug"
  redact_pii: false
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://registry.example.edu"}, cfg.Server.AllowedOrigins)

	// Test database config
	assert.Equal(t, "postgres://registry@localhost/registry?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout())

	// Test schema config
	assert.Equal(t, "registry", cfg.Schema.Name)
	assert.Equal(t, "student_records", cfg.Schema.StudentsTable)
	assert.Equal(t, "sms_deliveries", cfg.Schema.DeliveriesTable)
	assert.Equal(t, map[string]string{"gender": "sex", "phone": "mobile"}, cfg.Schema.Columns)

	// Test taxonomy and audience config
	assert.Equal(t, NormalizerLocal, cfg.Taxonomy.Normalizer)
	assert.Equal(t, 200, cfg.Audience.MaxRecipients)
	assert.Equal(t, []string{"emergency_phone", "phone"}, cfg.Audience.PhoneColumns)
	assert.Equal(t, "Student", cfg.Audience.PlaceholderName)

	// Test logging config
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Redact())
}

func TestLoadDefaults(t *testing.T) {
	configPath := writeConfig(t, `
database:
  url: "postgres://localhost/registry"
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Verify defaults are applied
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout())
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime())
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout())
	assert.Equal(t, "public", cfg.Schema.Name)
	assert.Equal(t, "students", cfg.Schema.StudentsTable)
	assert.Equal(t, NormalizerPostgres, cfg.Taxonomy.Normalizer)
	assert.Equal(t, 500, cfg.Audience.MaxRecipients)
	assert.Equal(t, []string{"phone", "emergency_phone"}, cfg.Audience.PhoneColumns)
	assert.Equal(t, "طالب", cfg.Audience.PlaceholderName)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redact())
}

func TestLoadFromEnv(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9000
database:
  url: "postgres://file/registry"
audience:
  max_recipients: 100
`)

	// Set environment variables
	t.Setenv("DATABASE_URL", "postgres://env/registry")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("AUDIENCE_MAX_RECIPIENTS", "250")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	// Environment variables should override file values
	assert.Equal(t, "postgres://env/registry", cfg.Database.URL)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Audience.MaxRecipients)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnv_IgnoresInvalidNumbers(t *testing.T) {
	configPath := writeConfig(t, "audience:\n  max_recipients: 100\n")

	t.Setenv("AUDIENCE_MAX_RECIPIENTS", "lots")
	t.Setenv("SERVER_PORT", "-1")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Audience.MaxRecipients)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestGetHost(t *testing.T) {
	cfg := ServerConfig{Host: "localhost"}
	assert.Equal(t, "localhost", cfg.GetHost())

	t.Setenv("SERVER_HOST", "0.0.0.0")
	assert.Equal(t, "0.0.0.0", cfg.GetHost())
}
