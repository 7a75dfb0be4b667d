package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Registry RegistryConfig
	Session  SessionConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Export   ExportConfig
	Stub     StubConfig
}

// RegistryConfig points the client at the remote Document Service.
type RegistryConfig struct {
	BaseURL     string
	Timeout     time.Duration
	PageSize    int
	RecencyTTL  time.Duration
	DownloadDir string
}

// SessionConfig carries the caller identity attached to every request.
type SessionConfig struct {
	Username string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes the reference-data cache (departments, document types).
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where rendered CSV/PDF exports are written.
type ExportConfig struct {
	Dir string
}

// StubConfig configures the local stub Document Service.
type StubConfig struct {
	Port           int
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Registry = RegistryConfig{
		BaseURL:     strings.TrimRight(v.GetString("REGISTRY_BASE_URL"), "/"),
		Timeout:     parseDuration(v.GetString("REGISTRY_TIMEOUT"), 30*time.Second),
		PageSize:    v.GetInt("REGISTRY_PAGE_SIZE"),
		RecencyTTL:  parseDuration(v.GetString("REGISTRY_RECENCY_TTL"), 10*time.Second),
		DownloadDir: v.GetString("REGISTRY_DOWNLOAD_DIR"),
	}

	cfg.Session = SessionConfig{
		Username: v.GetString("SESSION_USERNAME"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_REFERENCE_CACHE"),
		TTL:     parseDuration(v.GetString("REFERENCE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		Dir: v.GetString("EXPORT_DIR"),
	}

	cfg.Stub = StubConfig{
		Port:           v.GetInt("STUB_PORT"),
		AllowedOrigins: splitAndTrim(v.GetString("STUB_ALLOWED_ORIGINS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("REGISTRY_BASE_URL", "http://localhost:8080")
	v.SetDefault("REGISTRY_TIMEOUT", "30s")
	v.SetDefault("REGISTRY_PAGE_SIZE", 10)
	v.SetDefault("REGISTRY_RECENCY_TTL", "10s")
	v.SetDefault("REGISTRY_DOWNLOAD_DIR", "./downloads")

	v.SetDefault("SESSION_USERNAME", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_REFERENCE_CACHE", false)
	v.SetDefault("REFERENCE_CACHE_TTL", "10m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("STUB_PORT", 8080)
	v.SetDefault("STUB_ALLOWED_ORIGINS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
