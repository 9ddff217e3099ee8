package alumni

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

const (
	defaultPlanCount = 10
	defaultMoreCount = 5
	maxRequestCount  = 50

	rawLogLimit   = 2000
	followUpTTL   = 7 * 24 * time.Hour
	followUpNames = 3
)

// GeneratePlan runs the full pipeline for userID and stores the result as
// the user's single active plan. requestedCount <= 0 means 10.
func (s *Service) GeneratePlan(ctx context.Context, userID string, requestedCount int) (*PlanWithEntries, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidf("user_id is required")
	}
	count, err := requestCount(requestedCount, defaultPlanCount)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListPublicAlumni(ctx, MaxCandidatePool)
	if err != nil {
		return nil, fmt.Errorf("load alumni: %w", err)
	}
	networked, err := s.store.NetworkAlumniIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}

	candidates, err := SelectCandidates(all, idSet(networked), *profile, count)
	if err != nil {
		return nil, err
	}

	entries, err := s.recommend(ctx, *profile, candidates, count, 0)
	if err != nil {
		return nil, err
	}

	plan, err := s.persister.Persist(ctx, userID, PlanDraft{
		Title:     planTitle(*profile),
		GoalCount: profile.NetworkingIntensity.GoalCount(),
	}, entries, true)
	if err != nil {
		return nil, err
	}
	engine.IncrPlansGenerated()
	slog.Info("plan generated", slog.String("user_id", userID), slog.String("plan_id", plan.ID),
		slog.Int("candidates", len(candidates)), slog.Int("entries", len(plan.Entries)))

	s.suggestFollowUp(ctx, userID, plan.ID, plan.Entries)
	s.trackBestEffort(ctx, userID, "plan_generated", map[string]any{"plan_id": plan.ID, "entries": len(plan.Entries)})
	return plan, nil
}

// GenerateMore appends new recommendations to one of the user's plans,
// excluding alumni already in the plan or in the user's network.
// requestedCount <= 0 means 5.
func (s *Service) GenerateMore(ctx context.Context, planID, userID string, requestedCount int) ([]PlanEntry, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(planID) == "" {
		return nil, invalidf("plan_id and user_id are required")
	}
	count, err := requestCount(requestedCount, defaultMoreCount)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.store.GetPlan(ctx, planID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load plan: %w", err)
	}
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListPublicAlumni(ctx, MaxCandidatePool)
	if err != nil {
		return nil, fmt.Errorf("load alumni: %w", err)
	}
	inPlan, err := s.store.PlanAlumniIDs(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load plan alumni: %w", err)
	}
	networked, err := s.store.NetworkAlumniIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}

	candidates, err := SelectCandidates(all, idSet(inPlan, networked), *profile, count)
	if err != nil {
		return nil, err
	}

	start, err := s.store.NextSortOrder(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("next sort order: %w", err)
	}
	entries, err := s.recommend(ctx, *profile, candidates, count, start)
	if err != nil {
		return nil, err
	}

	appended, err := s.persister.Persist(ctx, userID, PlanDraft{PlanID: planID}, entries, false)
	if err != nil {
		return nil, err
	}
	stored := appended.Entries
	engine.IncrEntriesAppended(len(stored))
	slog.Info("plan extended", slog.String("user_id", userID), slog.String("plan_id", planID), slog.Int("entries", len(stored)))

	s.suggestFollowUp(ctx, userID, planID, stored)
	return stored, nil
}

// recommend builds the prompt, calls the model and reconciles its answer.
func (s *Service) recommend(ctx context.Context, p UserProfile, candidates []ScoredCandidate, count, start int) ([]PlanEntry, error) {
	var raw string
	err := engine.TrackOperation(ctx, "generate recommendations", func(ctx context.Context) error {
		var err error
		raw, err = s.llm.Complete(ctx, BuildPlanPrompt(p, candidates, count), s.maxTokens)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	entries, discarded, err := reconcile(raw, candidates, start)
	if discarded > 0 {
		engine.IncrDiscardedRecs(discarded)
		slog.Debug("discarded unresolved recommendations", slog.Int("count", discarded))
	}

	var unparseable *UnparseableResponseError
	var empty *EmptyRecommendationSetError
	switch {
	case errors.As(err, &unparseable):
		engine.IncrParseFailures()
		slog.Error("model response is not valid JSON",
			slog.String("user_id", p.UserID), slog.String("raw", engine.TruncateRunes(raw, rawLogLimit, "...")))
	case errors.As(err, &empty):
		engine.IncrEmptyResponses()
		slog.Warn("model response resolved to no candidates",
			slog.String("user_id", p.UserID), slog.Int("discarded", discarded),
			slog.String("raw", engine.TruncateRunes(raw, rawLogLimit, "...")))
	}
	return entries, err
}

// suggestFollowUp records one follow_up action for a generation run.
// Failure is logged and never affects the caller.
func (s *Service) suggestFollowUp(ctx context.Context, userID, planID string, entries []PlanEntry) {
	if len(entries) == 0 {
		return
	}
	names := make([]string, 0, followUpNames)
	for _, e := range entries {
		if e.Alumni != nil && len(names) < followUpNames {
			names = append(names, e.Alumni.FullName)
		}
	}
	payload, _ := json.Marshal(map[string]any{
		"plan_id": planID,
		"title":   "Reach out to your new recommendations",
		"alumni":  names,
	})
	expires := s.now().Add(followUpTTL)
	if _, err := s.store.InsertAction(ctx, SuggestedAction{
		UserID:      userID,
		ActionType:  ActionFollowUp,
		Payload:     payload,
		AlumniID:    entries[0].AlumniID,
		AIReasoning: "New alumni were added to your networking plan.",
		ExpiresAt:   &expires,
	}); err != nil {
		slog.Warn("follow-up action not created", slog.String("user_id", userID), slog.Any("error", err))
	}
}

func (s *Service) profile(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func requestCount(n, def int) (int, error) {
	if n <= 0 {
		return def, nil
	}
	if n > maxRequestCount {
		return 0, invalidf("count must be at most %d", maxRequestCount)
	}
	return n, nil
}

func planTitle(p UserProfile) string {
	if industry := strings.TrimSpace(p.PrimaryIndustry); industry != "" {
		return industry + " Plan"
	}
	return "Networking Plan"
}

// GetActivePlan returns the user's active plan with entries.
func (s *Service) GetActivePlan(ctx context.Context, userID string) (*PlanWithEntries, error) {
	plan, err := s.store.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load active plan: %w", err)
	}
	return s.withEntries(ctx, plan)
}

// GetPlan returns one of the user's plans with entries.
func (s *Service) GetPlan(ctx context.Context, planID, userID string) (*PlanWithEntries, error) {
	plan, err := s.store.GetPlan(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return s.withEntries(ctx, plan)
}

func (s *Service) withEntries(ctx context.Context, plan *Plan) (*PlanWithEntries, error) {
	entries, err := s.store.ListPlanEntries(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return &PlanWithEntries{Plan: *plan, Entries: entries}, nil
}

// ListPlans returns every plan of the user, newest first, without entries.
func (s *Service) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	return s.store.ListPlans(ctx, userID)
}

// DeletePlan removes one of the user's plans and its entries.
func (s *Service) DeletePlan(ctx context.Context, planID, userID string) error {
	if err := s.store.DeletePlan(ctx, planID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrPlanNotFound
		}
		return &PersistenceError{Op: "delete plan", Err: err}
	}
	return nil
}

// UpdateEntryStatus marks an entry contacted, not interested or active again.
func (s *Service) UpdateEntryStatus(ctx context.Context, entryID, userID string, status EntryStatus) error {
	switch status {
	case EntryActive, EntryContacted, EntryNotInterested:
	default:
		return invalidf("invalid status %q (valid: active, contacted, not_interested)", status)
	}
	if err := s.store.UpdateEntryStatus(ctx, entryID, userID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}
