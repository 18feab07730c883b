package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAppID          = "default-fitness-app"
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-2.0-flash"
	defaultExtractTimeout = 90 * time.Second
	defaultImportTTL      = 24 * time.Hour
	defaultSessionTTL     = 30 * 24 * time.Hour
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// tenant namespace all documents are stored under
	AppID string `toml:"app_id"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	DBAutoMigrate    bool   `toml:"db_auto_migrate"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// cors
	AllowedOrigins []string `toml:"allowed_origins"`
	// auth
	SessionTTL time.Duration `toml:"session_ttl"`
	// extraction
	GeminiBaseURL              string        `toml:"gemini_base_url"`
	GeminiModel                string        `toml:"gemini_model"`
	ExtractionTimeout          time.Duration `toml:"extraction_timeout"`
	ExtractionRateLimitPerMin  int           `toml:"extraction_rate_limit_per_min"`
	StagedImportTTL            time.Duration `toml:"staged_import_ttl"`
	StatsCacheSizeMB           int           `toml:"stats_cache_size_mb"`
	StatsCacheExpireSeconds    int           `toml:"stats_cache_expire_seconds"`
	LiveSubscriptionBufferSize int           `toml:"live_subscription_buffer_size"`
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

// Load reads the TOML file at path, picks the section for env,
// fills the defaults and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing in [%s]", env, path)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	if c.GeminiBaseURL == "" {
		c.GeminiBaseURL = DefaultGeminiBaseURL
	}
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.ExtractionTimeout == 0 {
		c.ExtractionTimeout = defaultExtractTimeout
	}
	if c.StagedImportTTL == 0 {
		c.StagedImportTTL = defaultImportTTL
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.ExtractionRateLimitPerMin == 0 {
		c.ExtractionRateLimitPerMin = 10
	}
	if c.StatsCacheSizeMB == 0 {
		c.StatsCacheSizeMB = 10
	}
	if c.StatsCacheExpireSeconds == 0 {
		c.StatsCacheExpireSeconds = 10 * 60
	}
	if c.PostgresMaxConns == 0 {
		c.PostgresMaxConns = 10
	}
	if c.LiveSubscriptionBufferSize == 0 {
		c.LiveSubscriptionBufferSize = 8
	}
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.AppID == "" {
		errs = append(errs, errors.New("app_id is required"))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres_host, postgres_port and postgres_db_name are required"))
	}
	if c.PostgresMaxConns < 0 {
		errs = append(errs, errors.New("postgres_max_conns must be positive"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis_host and redis_port are required"))
	}
	if c.PrometheusMetricsHost == "" || c.PrometheusMetricsPort == "" {
		errs = append(errs, errors.New("prometheus_metrics_host and prometheus_metrics_port are required"))
	}
	if c.GeminiBaseURL == "" || c.GeminiModel == "" {
		errs = append(errs, errors.New("gemini_base_url and gemini_model are required"))
	}
	if c.ExtractionTimeout < 0 {
		errs = append(errs, errors.New("extraction_timeout must be positive"))
	}
	if c.StagedImportTTL < 0 || c.SessionTTL < 0 {
		errs = append(errs, errors.New("staged_import_ttl and session_ttl must be positive"))
	}
	if c.ExtractionRateLimitPerMin < 0 {
		errs = append(errs, errors.New("extraction_rate_limit_per_min must be positive"))
	}
	if c.StatsCacheSizeMB < 0 || c.StatsCacheExpireSeconds < 0 || c.LiveSubscriptionBufferSize < 0 {
		errs = append(errs, errors.New("stats cache and live subscription settings must be positive"))
	}
	return errors.Join(errs...)
}
