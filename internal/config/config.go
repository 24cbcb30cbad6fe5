package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides file settings with DEVGENIUS_* environment variables.
// GEMINI_API_KEY is honoured as well so an exported key works without
// running 'devgenius provider set-key'.
func ApplyEnv(cfg *LocalConfig) {
	cfg.Daemon.Port = getEnvInt("DEVGENIUS_PORT", cfg.Daemon.Port)
	cfg.Daemon.Bind = getEnv("DEVGENIUS_BIND", cfg.Daemon.Bind)
	cfg.Daemon.LogLevel = getEnv("DEVGENIUS_LOG_LEVEL", cfg.Daemon.LogLevel)
	cfg.Daemon.AdviceRateLimit = getEnvInt("DEVGENIUS_ADVICE_RATE_LIMIT", cfg.Daemon.AdviceRateLimit)

	cfg.Advisor.Backend = getEnv("DEVGENIUS_ADVISOR_BACKEND", cfg.Advisor.Backend)
	cfg.Advisor.DefaultMode = getEnv("DEVGENIUS_DEFAULT_MODE", cfg.Advisor.DefaultMode)

	cfg.LLM.DefaultProvider = getEnv("DEVGENIUS_LLM_PROVIDER", cfg.LLM.DefaultProvider)
	if p, ok := cfg.LLM.Providers["gemini"]; ok {
		p.APIKey = getEnv("DEVGENIUS_GEMINI_API_KEY", getEnv("GEMINI_API_KEY", p.APIKey))
		p.Model = getEnv("DEVGENIUS_GEMINI_MODEL", p.Model)
	}
	if p, ok := cfg.LLM.Providers["ollama"]; ok {
		p.URL = getEnv("DEVGENIUS_OLLAMA_URL", p.URL)
		p.Model = getEnv("DEVGENIUS_OLLAMA_MODEL", p.Model)
		p.Enabled = getEnvBool("DEVGENIUS_OLLAMA_ENABLED", p.Enabled)
	}

	cfg.Preferences.Backend = getEnv("DEVGENIUS_PREFERENCES_BACKEND", cfg.Preferences.Backend)
	cfg.Preferences.RedisURL = getEnv("DEVGENIUS_REDIS_URL", cfg.Preferences.RedisURL)
	cfg.Preferences.PostgresURL = getEnv("DEVGENIUS_POSTGRES_URL", cfg.Preferences.PostgresURL)

	cfg.Events.Enabled = getEnvBool("DEVGENIUS_EVENTS_ENABLED", cfg.Events.Enabled)
	cfg.Events.AMQPURL = getEnv("DEVGENIUS_AMQP_URL", cfg.Events.AMQPURL)

	cfg.Challenges.Path = getEnv("DEVGENIUS_CHALLENGES_PATH", cfg.Challenges.Path)
	cfg.Challenges.Watch = getEnvBool("DEVGENIUS_CHALLENGES_WATCH", cfg.Challenges.Watch)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
