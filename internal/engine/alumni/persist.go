package alumni

import "context"

// PlanDraft describes the plan a generation run writes to: a new plan
// (Title, GoalCount) or an existing one (PlanID).
type PlanDraft struct {
	PlanID    string
	Title     string
	GoalCount int
}

// Persister writes reconciled entries. Every storage failure comes back as
// *PersistenceError and nothing partial is reported as success.
type Persister struct {
	plans PlanStore
}

// NewPersister returns a Persister over plans.
func NewPersister(plans PlanStore) *Persister {
	return &Persister{plans: plans}
}

// Persist stores entries as a new plan when isNew, otherwise appends them to draft.PlanID.
func (p *Persister) Persist(ctx context.Context, userID string, draft PlanDraft, entries []PlanEntry, isNew bool) (*PlanWithEntries, error) {
	if isNew {
		return p.CreatePlan(ctx, userID, draft, entries)
	}
	stored, err := p.Append(ctx, draft.PlanID, entries)
	if err != nil {
		return nil, err
	}
	return &PlanWithEntries{Plan: Plan{ID: draft.PlanID, UserID: userID}, Entries: stored}, nil
}

// CreatePlan deactivates the user's active plan and stores a new one with entries.
func (p *Persister) CreatePlan(ctx context.Context, userID string, draft PlanDraft, entries []PlanEntry) (*PlanWithEntries, error) {
	plan, stored, err := p.plans.CreatePlan(ctx, Plan{UserID: userID, Title: draft.Title, GoalCount: draft.GoalCount}, entries)
	if err != nil {
		return nil, &PersistenceError{Op: "create plan", Err: err}
	}
	return &PlanWithEntries{Plan: *plan, Entries: stored}, nil
}

// Append adds entries above the plan's current max sort_order.
func (p *Persister) Append(ctx context.Context, planID string, entries []PlanEntry) ([]PlanEntry, error) {
	stored, err := p.plans.AppendEntries(ctx, planID, entries)
	if err != nil {
		return nil, &PersistenceError{Op: "append entries", Err: err}
	}
	return stored, nil
}
