package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage: "postgres" or "memory"
	Storage   string `toml:"storage"`
	DBHost    string `toml:"db_host"`
	DBPort    string `toml:"db_port"`
	DBName    string `toml:"db_name"`
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// profiles
	ProfileCacheSizeMB int           `toml:"profile_cache_size_mb"`
	ProfileCacheTTL    time.Duration `toml:"profile_cache_ttl"`
	ReconcileTimeout   time.Duration `toml:"reconcile_timeout"`
	LibraryPath        string        `toml:"library_path"`

	// migration
	LegacyYear   string `toml:"legacy_year"`
	AcceptedYear string `toml:"accepted_year"`

	LoginRateLimitPerMin int `toml:"login_rate_limit_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults filled in for unset values.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.Storage == "" {
		c.Storage = "postgres"
	}
	if c.DBPort == "" {
		c.DBPort = "5432"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.ProfileCacheSizeMB == 0 {
		c.ProfileCacheSizeMB = 10
	}
	if c.ProfileCacheTTL == 0 {
		c.ProfileCacheTTL = 5 * time.Minute
	}
	if c.ReconcileTimeout == 0 {
		c.ReconcileTimeout = 2 * time.Minute
	}
	if c.LegacyYear == "" {
		c.LegacyYear = "2024"
	}
	if c.AcceptedYear == "" {
		c.AcceptedYear = "2025"
	}
	if c.LoginRateLimitPerMin == 0 {
		c.LoginRateLimitPerMin = 15
	}
}

func (c *Config) validate() error {
	switch c.Storage {
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("postgres storage needs db_host and db_name")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage [%s]", c.Storage)
	}
	if len(c.LegacyYear) != 4 || len(c.AcceptedYear) != 4 {
		return fmt.Errorf("legacy_year and accepted_year must be 4 digit years")
	}
	return nil
}

// Secrets are never stored in the config file.
type Secrets struct {
	AdminUsername     string `env:"GYMSTATS_ADMIN_USERNAME"`
	AdminPasswordHash string `env:"GYMSTATS_ADMIN_PASSWORD_HASH"`
	RedisPassword     string `env:"GYMSTATS_REDIS_PASS"`
	MCPSecret         string `env:"GYMSTATS_MCP_SECRET"`
	SentryDSN         string `env:"SENTRY_DSN"`
	HoneycombEnabled  bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey   string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName   string `env:"OTEL_SERVICE_NAME, default=gymprofile"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var secrets Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &secrets,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &secrets, nil
}
