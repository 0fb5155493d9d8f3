package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Remote quote API
	MarketAPIBaseURL string
	MarketAPIKey     string
	MarketAPITimeout int // seconds

	// Ingestion
	DefaultCategory string
	CategoryCodes   []string // categories drained per daily run, in order
	ChunkSize       int      // records per bulk insert

	// Cron specs (robfig/cron, with seconds field)
	DailyCronSpec   string
	WeeklyCronSpec  string
	MonthlyCronSpec string
	YearlyCronSpec  string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "root:agriprice@tcp(127.0.0.1:3306)/agriprice?charset=utf8mb4&parseTime=True&loc=Local"),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MarketAPIBaseURL: getEnv("MARKET_API_BASE_URL", "https://api.market-quotes.example.com"),
		MarketAPIKey:     getEnv("MARKET_API_KEY", ""),
		MarketAPITimeout: getEnvInt("MARKET_API_TIMEOUT_SECONDS", 30),

		DefaultCategory: getEnv("DEFAULT_CATEGORY_CODE", "100"),
		CategoryCodes:   getEnvList("CATEGORY_CODES", []string{"100", "200", "300", "400", "500", "600"}),
		ChunkSize:       getEnvInt("INGEST_CHUNK_SIZE", 100),

		DailyCronSpec:   getEnv("DAILY_CRON_SPEC", "0 0 6 * * *"),
		WeeklyCronSpec:  getEnv("WEEKLY_CRON_SPEC", "0 30 6 * * MON"),
		MonthlyCronSpec: getEnv("MONTHLY_CRON_SPEC", "0 0 7 1 * *"),
		YearlyCronSpec:  getEnv("YEARLY_CRON_SPEC", "0 30 7 1 1 *"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
