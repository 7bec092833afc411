package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `json:"env"`
	Http     HttpConfig     `json:"http"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
	Uploads  UploadsConfig  `json:"uploads"`
	Notify   NotifyConfig   `json:"notify"`
	Search   SearchConfig   `json:"search"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password,omitempty"`
	DB       int           `json:"db"`
	CaseTTL  time.Duration `json:"case_ttl"`
}

type UploadsConfig struct {
	Dir         string `json:"dir"`
	MaxUploadMB int64  `json:"max_upload_mb"`
	BaseURL     string `json:"base_url"`
}

type NotifyConfig struct {
	WebhookURL string `json:"webhook_url"`
	Disabled   bool   `json:"disabled"`
	Workers    int    `json:"workers"`
}

type SearchConfig struct {
	PageSize        int     `json:"page_size"`
	DefaultRadiusKM float64 `json:"default_radius_km"`
}

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "catcare_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CaseTTL:  getEnvDuration("REDIS_CASE_TTL", 5*time.Minute),
		},
		Uploads: UploadsConfig{
			Dir:         getEnv("UPLOADS_DIR", "./uploads"),
			MaxUploadMB: int64(getEnvInt("UPLOADS_MAX_MB", 32)),
			BaseURL:     getEnv("UPLOADS_BASE_URL", "/media"),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Disabled:   getEnvBool("NOTIFY_DISABLED", false),
			Workers:    getEnvInt("NOTIFY_WORKERS", 2),
		},
		Search: SearchConfig{
			PageSize:        getEnvInt("SEARCH_PAGE_SIZE", 9),
			DefaultRadiusKM: getEnvFloat("SEARCH_DEFAULT_RADIUS_KM", 5.0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.String("uploads_dir", cfg.Uploads.Dir))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}
	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 100 {
		return errors.New("SEARCH_PAGE_SIZE must be 1-100")
	}
	if c.Search.DefaultRadiusKM < 0.1 || c.Search.DefaultRadiusKM > 100 {
		return errors.New("SEARCH_DEFAULT_RADIUS_KM must be 0.1-100")
	}
	if c.Notify.Workers < 1 {
		c.Notify.Workers = 1
	}
	if !c.Notify.Disabled && c.Notify.WebhookURL == "" {
		c.Notify.Disabled = true
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
