package alumni

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

const (
	maxCoachAlumni     = 6
	coachMaxTokens     = 1500
	coachPoolLimit     = 1000
	nextStepsMaxTokens = 1000
	maxNextSteps       = 6
)

// CoachAction is one item of a career plan.
type CoachAction struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// NextStep is a follow-up item suggested after progress on a plan.
// Completed is always false for freshly suggested steps.
type NextStep struct {
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

// CoachAlumniRec is an alumnus the coach suggests contacting.
type CoachAlumniRec struct {
	AlumniID   string `json:"alumniId"`
	AlumniName string `json:"alumniName"`
	Reason     string `json:"reason"`
}

// CareerPlan is the career coach's answer for one interest.
type CareerPlan struct {
	Interest              string           `json:"interest"`
	ShortTermActions      []CoachAction    `json:"shortTermActions"`
	LongTermActions       []CoachAction    `json:"longTermActions"`
	AlumniRecommendations []CoachAlumniRec `json:"alumniRecommendations"`
	KeyInsight            string           `json:"keyInsight"`
}

// CareerPlan builds a short/long-term action plan for a career interest,
// pointing at up to 6 relevant alumni. Results are cached per user, interest
// and profile revision.
func (s *Service) CareerPlan(ctx context.Context, userID, interest string) (*CareerPlan, error) {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return nil, invalidf("interest is required")
	}
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := engine.CacheKey("coach", userID, engine.Fold(interest), profile.UpdatedAt.Format(time.RFC3339Nano))
	if cached, ok := engine.LoadJSON[CareerPlan](ctx, s.cache, key); ok {
		slog.Debug("coach: cache hit", slog.String("user_id", userID))
		return &cached, nil
	}

	all, err := s.store.ListPublicAlumni(ctx, coachPoolLimit)
	if err != nil {
		return nil, fmt.Errorf("load alumni: %w", err)
	}
	relevant := coachAlumni(all, *profile, interest)

	raw, err := s.llm.Complete(ctx, BuildCoachPrompt(*profile, interest, relevant), coachMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("career plan: %w", err)
	}

	plan, err := parseCareerPlan(raw)
	if err != nil {
		engine.IncrParseFailures()
		slog.Error("coach: model response is not valid JSON",
			slog.String("user_id", userID), slog.String("raw", engine.TruncateRunes(raw, rawLogLimit, "...")))
		return nil, err
	}
	plan.Interest = interest
	plan.AlumniRecommendations = resolveCoachAlumni(plan.AlumniRecommendations, relevant)

	engine.StoreJSON(ctx, s.cache, key, *plan)
	s.trackBestEffort(ctx, userID, "career_plan_generated", map[string]any{"interest": interest})
	return plan, nil
}

// coachAlumni ranks alumni against the profile with interest standing in for
// the primary industry, preferring alumni whose industry or role mentions it.
func coachAlumni(all []AlumniRecord, p UserProfile, interest string) []AlumniRecord {
	focused := p
	focused.PrimaryIndustry = interest

	type ranked struct {
		rec   AlumniRecord
		score int
	}
	pool := make([]ranked, 0, len(all))
	for _, a := range all {
		score := Score(a, focused)
		if engine.ContainsEitherFold(a.Role, interest) || engine.ContainsEitherFold(a.Company, interest) {
			score += weightPrimaryIndustry
		}
		if score == 0 {
			continue
		}
		pool = append(pool, ranked{a, score})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	out := make([]AlumniRecord, 0, maxCoachAlumni)
	for _, r := range pool[:min(maxCoachAlumni, len(pool))] {
		out = append(out, r.rec)
	}
	return out
}

func parseCareerPlan(raw string) (*CareerPlan, error) {
	text := engine.StripFences(raw)
	var plan CareerPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		obj := engine.ExtractJSONObject(text)
		if obj == "" {
			return nil, &UnparseableResponseError{Raw: raw}
		}
		plan = CareerPlan{}
		if err := json.Unmarshal([]byte(obj), &plan); err != nil {
			return nil, &UnparseableResponseError{Raw: raw}
		}
	}
	return &plan, nil
}

// resolveCoachAlumni keeps only recommendations naming a supplied alumnus.
func resolveCoachAlumni(recs []CoachAlumniRec, supplied []AlumniRecord) []CoachAlumniRec {
	out := make([]CoachAlumniRec, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		for _, a := range supplied {
			if !engine.EqualFold(a.FullName, r.AlumniName) {
				continue
			}
			if _, dup := seen[a.ID]; !dup {
				seen[a.ID] = struct{}{}
				out = append(out, CoachAlumniRec{AlumniID: a.ID, AlumniName: a.FullName, Reason: strings.TrimSpace(r.Reason)})
			}
			break
		}
	}
	return out
}

// CoachNextSteps suggests up to 6 new items for an interest given what the
// student has completed and what is still open. Suggestions repeating a
// listed item are dropped; unknown priorities become "medium".
func (s *Service) CoachNextSteps(ctx context.Context, userID, interest string, completed, remaining []CoachAction) ([]NextStep, error) {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return nil, invalidf("interest is required")
	}
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.Complete(ctx, BuildNextStepsPrompt(*profile, interest, completed, remaining), nextStepsMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("next steps: %w", err)
	}
	steps, err := parseNextSteps(raw)
	if err != nil {
		engine.IncrParseFailures()
		slog.Error("coach: next steps response is not valid JSON",
			slog.String("user_id", userID), slog.String("raw", engine.TruncateRunes(raw, rawLogLimit, "...")))
		return nil, err
	}

	known := make(map[string]struct{}, len(completed)+len(remaining))
	for _, it := range append(append([]CoachAction(nil), completed...), remaining...) {
		known[engine.Fold(it.Text)] = struct{}{}
	}
	out := make([]NextStep, 0, maxNextSteps)
	for _, st := range steps {
		text := strings.TrimSpace(st.Text)
		if text == "" {
			continue
		}
		if _, dup := known[engine.Fold(text)]; dup {
			continue
		}
		known[engine.Fold(text)] = struct{}{}
		out = append(out, NextStep{Text: text, Priority: normalizePriority(st.Priority)})
		if len(out) == maxNextSteps {
			break
		}
	}

	s.trackBestEffort(ctx, userID, "career_next_steps_generated", map[string]any{"interest": interest, "count": len(out)})
	return out, nil
}

type nextStepsEnvelope struct {
	NextSteps []CoachAction `json:"nextSteps"`
}

func parseNextSteps(raw string) ([]CoachAction, error) {
	text := engine.StripFences(raw)
	var env nextStepsEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		obj := engine.ExtractJSONObject(text)
		if obj == "" {
			return nil, &UnparseableResponseError{Raw: raw}
		}
		env = nextStepsEnvelope{}
		if err := json.Unmarshal([]byte(obj), &env); err != nil {
			return nil, &UnparseableResponseError{Raw: raw}
		}
	}
	return env.NextSteps, nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return "high"
	case "low":
		return "low"
	}
	return "medium"
}
