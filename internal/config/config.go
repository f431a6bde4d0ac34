package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential store drivers.
const (
	CredentialDriverFile   = "file"
	CredentialDriverRedis  = "redis"
	CredentialDriverMemory = "memory"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	App        AppConfig
	Backend    BackendConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Theme      ThemeConfig
}

// AppConfig controls the local web shell.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the marketplace REST API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// CredentialConfig selects where the bearer credential is persisted.
type CredentialConfig struct {
	Driver string
	File   string
	Secret string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// ThemeConfig sets the initial light/dark mode.
type ThemeConfig struct {
	Mode string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "car-marketplace-client"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "127.0.0.1"),
			Port:    getEnv("APP_PORT", "5173"),
			Version: getEnv("APP_VERSION", "dev"),

			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:3000"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 0),
		},
		Credential: CredentialConfig{
			Driver: strings.ToLower(getEnv("CREDENTIAL_DRIVER", CredentialDriverFile)),
			File:   getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
			Secret: os.Getenv("CREDENTIAL_SECRET"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "car-marketplace-client:"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Theme: ThemeConfig{
			Mode: strings.ToLower(getEnv("THEME_MODE", "light")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Credential.Driver {
	case CredentialDriverFile, CredentialDriverRedis, CredentialDriverMemory:
	default:
		return fmt.Errorf("invalid CREDENTIAL_DRIVER %q", c.Credential.Driver)
	}
	if c.Theme.Mode != "light" && c.Theme.Mode != "dark" {
		return fmt.Errorf("invalid THEME_MODE %q", c.Theme.Mode)
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("invalid BACKEND_BASE_URL %q", c.Backend.BaseURL)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout bounds the handling of one incoming request, zero when
// disabled.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call backend timeout, zero when disabled.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".car-marketplace-credential.json"
	}
	return filepath.Join(dir, "car-marketplace-client", "credential.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
