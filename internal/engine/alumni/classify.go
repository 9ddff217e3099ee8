package alumni

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

// ValidIndustries is the closed set the classifier may assign.
var ValidIndustries = []string{
	"Finance", "Technology", "Consulting", "Healthcare", "Law", "Media",
	"Sports", "Education", "Real Estate", "Government", "Nonprofit",
}

const (
	classifyBatchSize = 50
	classifyMaxTokens = 4096
)

// ClassifyReport summarizes one classification run.
type ClassifyReport struct {
	Batches   int `json:"batches"`
	Failed    int `json:"failed_batches"`
	Updated   int `json:"updated"`
	Cleared   int `json:"cleared"`
	Unchanged int `json:"unchanged"`
}

// CanonicalIndustry returns the ValidIndustries spelling of s, or "" if s is not one of them.
func CanonicalIndustry(s string) string {
	for _, v := range ValidIndustries {
		if engine.EqualFold(v, s) {
			return v
		}
	}
	return ""
}

// ClassifyIndustries re-derives every alumnus' industry from company and
// role in batches of 50. A failed batch is logged and left untouched.
func (s *Service) ClassifyIndustries(ctx context.Context) (*ClassifyReport, error) {
	report := &ClassifyReport{}
	for offset := 0; ; offset += classifyBatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		batch, err := s.store.ListAlumniBatch(ctx, offset, classifyBatchSize)
		if err != nil {
			return report, fmt.Errorf("load batch at %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}
		report.Batches++
		engine.IncrClassifyBatches()

		results, err := s.classifyBatch(ctx, batch)
		if err != nil {
			report.Failed++
			slog.Warn("classify: batch failed", slog.Int("offset", offset), slog.Any("error", err))
			continue
		}

		for _, a := range batch {
			industry, ok := results[a.ID]
			if !ok || deref(industry) == a.Industry {
				report.Unchanged++
				continue
			}
			if err := s.store.SetAlumniIndustry(ctx, a.ID, industry); err != nil {
				slog.Warn("classify: update failed", slog.String("alumni_id", a.ID), slog.Any("error", err))
				continue
			}
			if industry == nil {
				report.Cleared++
			} else {
				report.Updated++
			}
		}
		if len(batch) < classifyBatchSize {
			break
		}
	}
	slog.Info("classify: done", slog.Int("batches", report.Batches), slog.Int("updated", report.Updated),
		slog.Int("cleared", report.Cleared), slog.Int("failed_batches", report.Failed))
	return report, nil
}

type classification struct {
	Index    flexInt `json:"index"`
	Industry *string `json:"industry"`
}

// classifyBatch returns alumni id → industry (nil = clear) for every
// alumnus the model answered for.
func (s *Service) classifyBatch(ctx context.Context, batch []AlumniRecord) (map[string]*string, error) {
	raw, err := s.llm.Complete(ctx, BuildClassifyPrompt(batch), classifyMaxTokens)
	if err != nil {
		return nil, err
	}

	items, err := parseClassifications(raw)
	if err != nil {
		engine.IncrParseFailures()
		return nil, err
	}

	out := make(map[string]*string, len(items))
	for _, it := range items {
		i := int(it.Index) - 1
		if i < 0 || i >= len(batch) {
			continue
		}
		var industry *string
		if it.Industry != nil {
			if v := CanonicalIndustry(*it.Industry); v != "" {
				industry = &v
			}
		}
		out[batch[i].ID] = industry
	}
	return out, nil
}

func parseClassifications(raw string) ([]classification, error) {
	text := engine.StripFences(raw)
	var items []classification
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, nil
	}
	if arr := engine.ExtractJSONArray(text); arr != "" {
		if err := json.Unmarshal([]byte(arr), &items); err == nil {
			return items, nil
		}
	}
	return nil, &UnparseableResponseError{Raw: raw}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
