// go_alumni: alumni networking MCP server for student-athletes.
//
// Recommends alumni to contact (networking plans), drafts outreach messages,
// tracks the student's network, builds career plans and runs a jobs board.
// Runs as HTTP MCP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robfig/cron/v3"

	"github.com/anatolykoptev/go_alumni/internal/alumniserver"
	"github.com/anatolykoptev/go_alumni/internal/engine"
	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	c := loadConfig()

	cache := engine.NewCache(c.RedisURL, c.CacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
	defer cache.Close()

	store, err := openStore(context.Background(), c)
	if err != nil {
		slog.Error("store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	svc := alumni.NewService(store, newLLM(c, cache),
		alumni.WithCache(cache),
		alumni.WithRedis(cache.Redis()),
		alumni.WithMaxTokens(c.LLMMaxTokens),
	)

	if c.ClassifySchedule != "" {
		sched := cron.New(cron.WithLogger(cron.DefaultLogger))
		if _, err := sched.AddFunc(c.ClassifySchedule, func() { classify(svc) }); err != nil {
			slog.Error("invalid CLASSIFY_SCHEDULE", slog.String("spec", c.ClassifySchedule), slog.Any("error", err))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		slog.Info("industry classification scheduled", slog.String("spec", c.ClassifySchedule))
	}

	slog.Info("starting go_alumni",
		slog.String("port", mcpPort),
		slog.Bool("postgres", c.DatabaseURL != ""),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_alumni",
		Version: version,
	}, nil)

	n := alumniserver.RegisterTools(server, svc)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_alumni",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	d := engine.DefaultConfig()
	return engine.Config{
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", d.LLMAPIBase),
		LLMModel:             env.Str("LLM_MODEL", d.LLMModel),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", d.LLMTemperature),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", d.LLMMaxTokens),
		LLMTimeout:           env.Duration("LLM_TIMEOUT", d.LLMTimeout),
		LLMRetries:           env.Int("LLM_RETRIES", d.LLMRetries),
		LLMRatePerMinute:     env.Int("LLM_RATE_PER_MINUTE", d.LLMRatePerMinute),
		DatabaseURL:          env.Str("DATABASE_URL", ""),
		SQLitePath:           env.Str("SQLITE_PATH", defaultSQLitePath()),
		RedisURL:             env.Str("REDIS_URL", ""),
		CacheTTL:             env.Duration("CACHE_TTL", d.CacheTTL),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", d.CacheMaxEntries),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", d.CacheCleanupInterval),
		ClassifySchedule:     env.Str("CLASSIFY_SCHEDULE", ""),
	}
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "alumni.db"
	}
	return filepath.Join(home, ".go_alumni", "alumni.db")
}

func openStore(ctx context.Context, c engine.Config) (*alumni.SQLStore, error) {
	if c.DatabaseURL != "" {
		return alumni.OpenPostgres(ctx, c.DatabaseURL)
	}
	return alumni.OpenSQLite(ctx, c.SQLitePath)
}

// newLLM wraps the go-kit client with timeout, retry, rate limit and cache.
func newLLM(c engine.Config, cache *engine.Cache) *engine.LLM {
	client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	complete := engine.CompleterFunc(func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return client.Complete(ctx, "", prompt, llm.WithChatMaxTokens(maxTokens))
	})
	return engine.NewLLM(complete,
		engine.WithTimeout(c.LLMTimeout),
		engine.WithRetries(c.LLMRetries),
		engine.WithRateLimit(c.LLMRatePerMinute),
		engine.WithCache(cache),
	)
}

func classify(svc *alumni.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	report, err := svc.ClassifyIndustries(ctx)
	if err != nil {
		slog.Error("industry classification failed", slog.Any("error", err))
		return
	}
	slog.Info("industry classification done",
		slog.Int("batches", report.Batches),
		slog.Int("failed_batches", report.Failed),
		slog.Int("updated", report.Updated),
		slog.Int("cleared", report.Cleared),
	)
}
