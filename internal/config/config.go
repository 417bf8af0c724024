package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Log struct {
		Level     string
		Format    string
		Component string
	}

	Store struct {
		// Backend selects where the engine snapshot lives:
		// "memory", "sqlite", "mysql" or "redis".
		Backend    string
		Key        string
		SQLitePath string
		MySQLDSN   string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Identity struct {
		SQLitePath string
	}

	Engine struct {
		SessionTimeout time.Duration
		ReplyDelay     time.Duration
		FeedSize       int
		// Seed pins the random source for reproducible runs; 0 means the
		// shared system generator.
		Seed uint64
	}
}

func New() *Config {
	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "muse_engine")

	// Snapshot store
	cfg.Store.Backend = strings.ToLower(getEnvDefault("STORE_BACKEND", "sqlite"))
	cfg.Store.Key = getEnvDefault("STORE_KEY", "muse-storage")
	cfg.Store.SQLitePath = getEnvDefault("STORE_SQLITE_PATH", "muse.db")
	cfg.Store.MySQLDSN = os.Getenv("MYSQL_DSN")

	// Redis (only used when STORE_BACKEND=redis)
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// Identity directory
	cfg.Identity.SQLitePath = getEnvDefault("IDENTITY_SQLITE_PATH", "muse-identity.db")

	// Engine tuning
	cfg.Engine.SessionTimeout = getDurationDefault("SESSION_TIMEOUT", 24*time.Hour)
	cfg.Engine.ReplyDelay = getDurationDefault("REPLY_DELAY", 2*time.Second)
	cfg.Engine.FeedSize = getIntDefault("FEED_SIZE", 40)
	if v := strings.TrimSpace(os.Getenv("SEED")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Engine.Seed = n
		}
	}

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDurationDefault(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getIntDefault(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
