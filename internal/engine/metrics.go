package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls          atomic.Int64
	LLMErrors         atomic.Int64
	LLMTimeouts       atomic.Int64
	LLMCacheFallbacks atomic.Int64
	PlansGenerated    atomic.Int64
	EntriesAppended   atomic.Int64
	ParseFailures     atomic.Int64
	EmptyResponses    atomic.Int64
	DiscardedRecs     atomic.Int64
	ClassifyBatches   atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"llm_timeouts":        metrics.LLMTimeouts.Load(),
		"llm_cache_fallbacks": metrics.LLMCacheFallbacks.Load(),
		"plans_generated":     metrics.PlansGenerated.Load(),
		"entries_appended":    metrics.EntriesAppended.Load(),
		"parse_failures":      metrics.ParseFailures.Load(),
		"empty_responses":     metrics.EmptyResponses.Load(),
		"discarded_recs":      metrics.DiscardedRecs.Load(),
		"classify_batches":    metrics.ClassifyBatches.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"llm_calls", "llm_errors", "llm_timeouts", "llm_cache_fallbacks",
		"plans_generated", "entries_appended",
		"parse_failures", "empty_responses", "discarded_recs",
		"classify_batches",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the alumni sub-package.
func IncrPlansGenerated() { metrics.PlansGenerated.Add(1) }
func IncrEntriesAppended(n int) { metrics.EntriesAppended.Add(int64(n)) }
func IncrParseFailures() { metrics.ParseFailures.Add(1) }
func IncrEmptyResponses() { metrics.EmptyResponses.Add(1) }
func IncrDiscardedRecs(n int) { metrics.DiscardedRecs.Add(int64(n)) }
func IncrClassifyBatches() { metrics.ClassifyBatches.Add(1) }

// slowOperation is the duration above which TrackOperation warns.
const slowOperation = 10 * time.Second

// TrackOperation runs fn and warns when it is slow. A completion that takes
// this long is close to the per-attempt timeout.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	if elapsed := time.Since(start); elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed), slog.Bool("failed", err != nil))
	}
	return err
}
