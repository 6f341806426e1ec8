package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	LogLevel       string
	APIToken       string
	RedisURL       string
	SessionTTL     time.Duration
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	GeminiAPIKey   string
	GeminiModel    string
	CallbackURL    string
	CallbackAPIKey string
	AgentTimeout   time.Duration
	MaxTurns       int
	MinIntel       int
}

func Load() Config {
	return Config{
		Port:           envInt("HONEYTRAP_PORT", 8640),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		APIToken:       envStr("HONEYTRAP_API_TOKEN", ""),
		RedisURL:       envStr("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:     envDur("SESSION_TTL", time.Hour),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		GeminiAPIKey:   envStr("GEMINI_API_KEY", ""),
		GeminiModel:    envStr("HONEYTRAP_MODEL", "gemini-2.5-flash"),
		CallbackURL:    envStr("CALLBACK_URL", ""),
		CallbackAPIKey: envStr("CALLBACK_API_KEY", ""),
		AgentTimeout:   envDur("AGENT_TIMEOUT", 30*time.Second),
		MaxTurns:       envInt("MAX_TURNS", 12),
		MinIntel:       envInt("MIN_INTEL", 2),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
