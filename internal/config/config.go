package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Schema   SchemaConfig   `yaml:"schema"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Audience AudienceConfig `yaml:"audience"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                int      `yaml:"port"`
	Host                string   `yaml:"host"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

// GetHost returns the server host, honouring SERVER_HOST
func (c ServerConfig) GetHost() string {
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// ReadTimeout returns the read timeout as a time.Duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a time.Duration
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	QueryTimeoutSeconds    int    `yaml:"query_timeout_seconds"`
}

// ConnMaxLifetime returns the connection lifetime as a time.Duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// QueryTimeout returns the per-statement timeout as a time.Duration
func (c DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// SchemaConfig locates the student and delivery tables. Columns maps logical
// attribute names to physical columns where a deployment differs from the
// defaults.
type SchemaConfig struct {
	Name            string            `yaml:"name"`
	StudentsTable   string            `yaml:"students_table"`
	DeliveriesTable string            `yaml:"deliveries_table"`
	Columns         map[string]string `yaml:"columns"`
}

// Department name normalizers.
const (
	NormalizerPostgres = "postgres"
	NormalizerLocal    = "local"
)

// TaxonomyConfig selects how department names are normalized.
type TaxonomyConfig struct {
	Normalizer string `yaml:"normalizer"`
}

// AudienceConfig holds campaign audience resolution settings.
type AudienceConfig struct {
	MaxRecipients   int      `yaml:"max_recipients"`
	PhoneColumns    []string `yaml:"phone_columns"`
	PlaceholderName string   `yaml:"placeholder_name"`
}

// LoggingConfig holds log level and redaction settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether phone numbers are masked in logs. Defaults to true.
func (c LoggingConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 5
	}
	if cfg.Database.QueryTimeoutSeconds == 0 {
		cfg.Database.QueryTimeoutSeconds = 30
	}
	if cfg.Schema.Name == "" {
		cfg.Schema.Name = "public"
	}
	if cfg.Schema.StudentsTable == "" {
		cfg.Schema.StudentsTable = "students"
	}
	if cfg.Schema.DeliveriesTable == "" {
		cfg.Schema.DeliveriesTable = "sms_deliveries"
	}
	if cfg.Taxonomy.Normalizer == "" {
		cfg.Taxonomy.Normalizer = NormalizerPostgres
	}
	if cfg.Audience.MaxRecipients == 0 {
		cfg.Audience.MaxRecipients = 500
	}
	if len(cfg.Audience.PhoneColumns) == 0 {
		cfg.Audience.PhoneColumns = []string{"phone", "emergency_phone"}
	}
	if cfg.Audience.PlaceholderName == "" {
		cfg.Audience.PlaceholderName = "طالب"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so the database URL can live in .env locally and in real env vars when
// deployed.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AUDIENCE_MAX_RECIPIENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Audience.MaxRecipients = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("TAXONOMY_NORMALIZER"); v != "" {
		cfg.Taxonomy.Normalizer = strings.ToLower(v)
	}

	return cfg, nil
}
