package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=receiving port=5432 sslmode=disable"

type Config struct {
	Environment    string
	HTTPPort       string
	DatabaseDSN    string
	CORSOrigins    string
	LogLevel       string
	LogFormat      string
	SlowQuery      time.Duration
	MetricsEnabled bool
	SeedEmployees  []string // initial "mistake made by" list, added idempotently at startup
}

// Load reads the environment, preferring values already set over a local .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] could not read .env: %v", err)
	}

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", defaultDSN)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SLOW_QUERY_THRESHOLD", "200ms")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SEED_EMPLOYEES", "")
	v.AutomaticEnv()

	cfg := &Config{
		Environment:    strings.TrimSpace(v.GetString("APP_ENV")),
		HTTPPort:       strings.TrimSpace(v.GetString("HTTP_PORT")),
		DatabaseDSN:    strings.TrimSpace(v.GetString("DATABASE_DSN")),
		CORSOrigins:    v.GetString("CORS_ALLOWED_ORIGINS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		SlowQuery:      v.GetDuration("SLOW_QUERY_THRESHOLD"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		SeedEmployees:  splitList(v.GetString("SEED_EMPLOYEES")),
	}

	if cfg.DatabaseDSN == defaultDSN {
		if !cfg.IsDevelopment() {
			return nil, errors.New("DATABASE_DSN must be set outside development")
		}
		log.Println("[WARN] DATABASE_DSN default value in use; set your own Postgres connection string.")
	}
	if cfg.SlowQuery <= 0 {
		return nil, errors.New("SLOW_QUERY_THRESHOLD must be a positive duration, e.g. 200ms")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// CORSOriginList returns the configured origins, trimmed.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
