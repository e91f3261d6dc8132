package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory", "sqlite" or "firestore"
	SQLitePath     string

	AuthBackend string // "memory" or "redis"
	RedisAddr   string
	RedisPass   string
	SessionTTL  time.Duration

	UseMockLLM bool // true = use the fake counselor even on GCP
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

// Load reads .env (if present) plus the environment and builds the config.
func Load() *Config {
	_ = godotenv.Load()

	modeStr := getEnv("MAUM_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("MAUM_PORT", "8080"),

		GCPProjectID: getEnv("MAUM_GCP_PROJECT", ""),
		GCPLocation:  getEnv("MAUM_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("MAUM_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("MAUM_STORAGE_BACKEND", "memory"),
		SQLitePath:     getEnv("MAUM_SQLITE_PATH", "maum.db"),

		AuthBackend: getEnv("MAUM_AUTH_BACKEND", "memory"),
		RedisAddr:   getEnv("MAUM_REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("MAUM_REDIS_PASSWORD", ""),
		SessionTTL:  getDurationEnv("MAUM_SESSION_TTL", 24*time.Hour),

		UseMockLLM: getBoolEnv("MAUM_USE_MOCK_LLM", mode == ModeLocal),
	}

	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("MAUM_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}
