package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	Storage     string
	DatabaseURL string
	// Providers
	Provider           string
	BirdEyeAPIBase     string
	BirdEyeAPIKey      string
	BirdEyeChain       string
	DexScreenerAPIBase string
	RequestTimeout     time.Duration
	// Worker
	WorkerType      string
	WorkerPoll      time.Duration
	WorkerBatchSize int
	// Redis (idempotency)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		Storage:            getEnv("STORAGE", "pg"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Provider:           getEnv("PROVIDER", "fake"),
		BirdEyeAPIBase:     getEnv("BIRDEYE_API_BASE", "https://public-api.birdeye.so"),
		BirdEyeAPIKey:      getEnv("BIRDEYE_API_KEY", ""),
		BirdEyeChain:       getEnv("BIRDEYE_CHAIN", "solana"),
		DexScreenerAPIBase: getEnv("DEXSCREENER_API_BASE", "https://api.dexscreener.com"),
		RequestTimeout:     time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		WorkerType:         getEnv("WORKER_TYPE", "db"),
		WorkerPoll:         time.Duration(atoiDef(getEnv("WORKER_POLL_MS", "250"), 250)) * time.Millisecond,
		WorkerBatchSize:    atoiDef(getEnv("WORKER_BATCH_LIMIT", "10"), 10),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           time.Duration(atoiDef(getEnv("IDEMPOTENCY_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
	}
}
