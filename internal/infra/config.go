package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	APIBaseURL       string
	GeminiAPIKey     string
	BananaAPIKey     string
	BananaModelKey   string
	JobRetention     time.Duration
	SweepInterval    time.Duration
	PollInterval     time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Provider API keys are optional: the local adapter
// serves requests when no credentials are configured.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:8080"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		BananaAPIKey:     os.Getenv("BANANA_API_KEY"),
		BananaModelKey:   getEnv("BANANA_MODEL_KEY", "stable-diffusion-xl"),
		JobRetention:     time.Hour * time.Duration(getEnvInt("JOB_RETENTION_HOURS", 24)),
		SweepInterval:    getEnvDuration("JOB_SWEEP_INTERVAL", time.Hour),
		PollInterval:     getEnvDuration("JOB_POLL_INTERVAL", 2*time.Second),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	return cfg, nil
}

// Production reports whether the service runs with the production environment flag.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
