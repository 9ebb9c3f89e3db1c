// Package config loads runtime configuration from the environment, with an
// optional .env file for local development. Fail-fast: when a persistence
// backend is selected its URL must be present, otherwise Load errors out.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the pipeline service.
type Config struct {
	Port string

	// PersistBackend selects the KV adapter: "memory", "redis" or
	// "postgres".
	PersistBackend string
	DatabaseURL    string
	RedisURL       string

	// LLM enrichment endpoint (OpenAI-compatible chat completions).
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Enrichment sweep cadence in hours; 0 disables the scheduler.
	SweepIntervalHours int

	// Optional transition guards.
	StrictSequential bool
	RejectWhenBusy   bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	// Best-effort: a missing .env just means plain env vars are in use.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           envOr("PIPELINE_PORT", "8083"),
		PersistBackend: envOr("PERSIST_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),

		StrictSequential: boolEnv("STRICT_SEQUENTIAL"),
		RejectWhenBusy:   boolEnv("REJECT_WHEN_BUSY"),
	}

	switch cfg.PersistBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when PERSIST_BACKEND=redis")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when PERSIST_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown PERSIST_BACKEND %q", cfg.PersistBackend)
	}

	hours := 6
	if raw := os.Getenv("SWEEP_INTERVAL_HOURS"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL_HOURS %q", raw)
		}
		hours = v
	}
	cfg.SweepIntervalHours = hours

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
