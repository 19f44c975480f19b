package config

import (
	"os"
	"time"
)

type Config struct {
	DataPath    string
	UploadsPath string
	ListenAddr  string
	UploadsURL  string
	AIBaseURL   string
	AIKey       string
	AIModel     string
	AITimeout   time.Duration
}

func Load() Config {
	cfg := Config{
		DataPath:    os.Getenv("TRADELOG_DATA_PATH"),
		UploadsPath: os.Getenv("TRADELOG_UPLOADS_PATH"),
		ListenAddr:  envOr("TRADELOG_LISTEN_ADDR", "127.0.0.1:8080"),
		UploadsURL:  envOr("TRADELOG_UPLOADS_URL", "/uploads"),
		AIBaseURL:   envOr("TRADELOG_AI_URL", "https://openrouter.ai/api/v1"),
		AIKey:       os.Getenv("TRADELOG_AI_KEY"),
		AIModel:     envOr("TRADELOG_AI_MODEL", "openai/gpt-3.5-turbo"),
	}

	cfg.AITimeout = parseDurationOr("TRADELOG_AI_TIMEOUT", 90*time.Second)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
