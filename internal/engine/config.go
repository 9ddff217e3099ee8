package engine

import "time"

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration // per completion attempt
	LLMRetries         int           // extra attempts on transient failure
	LLMRatePerMinute   int           // 0 = unlimited

	DatabaseURL string // Postgres; empty = SQLite
	SQLitePath  string

	RedisURL             string // empty = L1 cache only, no event publishing
	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	ClassifySchedule string // cron spec; empty = industry classification disabled
}

// DefaultConfig returns the values main falls back to when env is unset.
func DefaultConfig() Config {
	return Config{
		LLMAPIBase:           "https://generativelanguage.googleapis.com/v1beta/openai",
		LLMModel:             "gemini-2.5-flash",
		LLMTemperature:       0.4,
		LLMMaxTokens:         4000,
		LLMTimeout:           30 * time.Second,
		LLMRetries:           1,
		LLMRatePerMinute:     60,
		CacheTTL:             6 * time.Hour,
		CacheMaxEntries:      1000,
		CacheCleanupInterval: 5 * time.Minute,
	}
}
