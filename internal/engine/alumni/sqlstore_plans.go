package alumni

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const planColumns = `id, user_id, title, goal_count, is_active, created_at, updated_at`

func scanPlan(row rowScanner) (*Plan, error) {
	var p Plan
	var created, updated dbTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.GoalCount, &p.IsActive, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = created.Time, updated.Time
	return &p, nil
}

const entryColumns = `pa.id, pa.plan_id, pa.alumni_id, pa.career_summary, pa.company_bio,
	pa.talking_points, pa.recommendation_reason, pa.status, pa.sort_order, pa.created_at, pa.updated_at`

// ListPublicAlumni returns candidate rows: public, with a company.
func (s *SQLStore) ListPublicAlumni(ctx context.Context, limit int) ([]AlumniRecord, error) {
	if limit <= 0 || limit > MaxCandidatePool {
		limit = MaxCandidatePool
	}
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+alumniColumns("")+` FROM alumni
		WHERE is_public = ? AND company IS NOT NULL AND TRIM(company) <> ''
		ORDER BY created_at, id LIMIT ?`), true, limit)
	if err != nil {
		return nil, fmt.Errorf("list public alumni: %w", err)
	}
	defer rows.Close()
	return collectAlumni(rows)
}

// NetworkAlumniIDs returns alumni the user already saved to their network.
func (s *SQLStore) NetworkAlumniIDs(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT alumni_id FROM user_networks WHERE user_id = ?`, userID)
}

// PlanAlumniIDs returns alumni already recommended in one plan.
func (s *SQLStore) PlanAlumniIDs(ctx context.Context, planID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT alumni_id FROM plan_alumni WHERE plan_id = ?`, planID)
}

func (s *SQLStore) queryIDs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), arg)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreatePlan deactivates the user's active plans, inserts plan and inserts
// entries, all in one transaction.
func (s *SQLStore) CreatePlan(ctx context.Context, plan Plan, entries []PlanEntry) (*Plan, []PlanEntry, error) {
	now := time.Now().UTC()
	plan.ID = newID()
	plan.IsActive = true
	plan.CreatedAt, plan.UpdatedAt = now, now

	var stored []PlanEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE networking_plans SET is_active = ?, updated_at = ?
			WHERE user_id = ? AND is_active = ?`), false, s.ts(now), plan.UserID, true); err != nil {
			return fmt.Errorf("deactivate plans: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO networking_plans (`+planColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			plan.ID, plan.UserID, plan.Title, plan.GoalCount, plan.IsActive, s.ts(now), s.ts(now)); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		var err error
		stored, err = s.insertEntries(ctx, tx, plan.ID, entries, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &plan, stored, nil
}

// AppendEntries adds entries to an existing plan without touching its
// existing rows or active flag.
func (s *SQLStore) AppendEntries(ctx context.Context, planID string, entries []PlanEntry) ([]PlanEntry, error) {
	now := time.Now().UTC()
	var stored []PlanEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var maxOrder sql.NullInt64
		if err := tx.QueryRowContext(ctx, s.q(`SELECT MAX(sort_order) FROM plan_alumni WHERE plan_id = ?`), planID).
			Scan(&maxOrder); err != nil {
			return fmt.Errorf("max sort_order: %w", err)
		}
		if maxOrder.Valid && len(entries) > 0 {
			lowest := entries[0].SortOrder
			for _, e := range entries[1:] {
				lowest = min(lowest, e.SortOrder)
			}
			if shift := int(maxOrder.Int64) + 1 - lowest; shift > 0 {
				rebased := make([]PlanEntry, len(entries))
				for i, e := range entries {
					e.SortOrder += shift
					rebased[i] = e
				}
				entries = rebased
			}
		}

		var err error
		stored, err = s.insertEntries(ctx, tx, planID, entries, now)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE networking_plans SET updated_at = ? WHERE id = ?`), s.ts(now), planID); err != nil {
			return fmt.Errorf("touch plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// insertEntries inserts entries; rows colliding on (plan_id, alumni_id) are skipped.
func (s *SQLStore) insertEntries(ctx context.Context, tx *sql.Tx, planID string, entries []PlanEntry, now time.Time) ([]PlanEntry, error) {
	stored := make([]PlanEntry, 0, len(entries))
	for _, e := range entries {
		e.ID = newID()
		e.PlanID = planID
		if e.Status == "" {
			e.Status = EntryActive
		}
		if e.TalkingPoints == nil {
			e.TalkingPoints = []string{}
		}
		e.CreatedAt, e.UpdatedAt = now, now
		res, err := tx.ExecContext(ctx, s.q(`INSERT INTO plan_alumni
			(id, plan_id, alumni_id, career_summary, company_bio, talking_points,
			 recommendation_reason, status, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (plan_id, alumni_id) DO NOTHING`),
			e.ID, e.PlanID, e.AlumniID, e.CareerSummary, e.CompanyBio, encodeList(e.TalkingPoints),
			e.RecommendationReason, string(e.Status), e.SortOrder, s.ts(now), s.ts(now))
		if err != nil {
			return nil, fmt.Errorf("insert entry %s: %w", e.AlumniID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}
		stored = append(stored, e)
	}
	return stored, nil
}

// NextSortOrder returns the sort_order the next appended entry should take.
func (s *SQLStore) NextSortOrder(ctx context.Context, planID string) (int, error) {
	var maxOrder sql.NullInt64
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT MAX(sort_order) FROM plan_alumni WHERE plan_id = ?`), planID).
		Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("max sort_order: %w", err)
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// GetPlan returns a plan owned by userID.
func (s *SQLStore) GetPlan(ctx context.Context, planID, userID string) (*Plan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, s.q(`SELECT `+planColumns+` FROM networking_plans
		WHERE id = ? AND user_id = ?`), planID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetActivePlan returns the user's active plan.
func (s *SQLStore) GetActivePlan(ctx context.Context, userID string) (*Plan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, s.q(`SELECT `+planColumns+` FROM networking_plans
		WHERE user_id = ? AND is_active = ?`), userID, true))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ListPlans returns all plans of a user, newest first.
func (s *SQLStore) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+planColumns+` FROM networking_plans
		WHERE user_id = ? ORDER BY created_at DESC, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// ListPlanEntries returns a plan's entries joined with their alumni, by sort_order.
func (s *SQLStore) ListPlanEntries(ctx context.Context, planID string) ([]PlanEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+entryColumns+`, `+alumniColumns("a.")+`
		FROM plan_alumni pa JOIN alumni a ON a.id = pa.alumni_id
		WHERE pa.plan_id = ? ORDER BY pa.sort_order, pa.id`), planID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]PlanEntry, 0)
	for rows.Next() {
		var e PlanEntry
		var points jsonList
		var created, updated dbTime
		dest := []any{&e.ID, &e.PlanID, &e.AlumniID, &e.CareerSummary, &e.CompanyBio,
			&points, &e.RecommendationReason, &e.Status, &e.SortOrder, &created, &updated}
		a, alumniDest := alumniScanDest()
		if err := rows.Scan(append(dest, alumniDest...)...); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.TalkingPoints = points
		e.CreatedAt, e.UpdatedAt = created.Time, updated.Time
		e.Alumni = a.record()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeletePlan removes a plan and its entries. Ownership is checked first.
func (s *SQLStore) DeletePlan(ctx context.Context, planID, userID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id string
		if err := tx.QueryRowContext(ctx, s.q(`SELECT id FROM networking_plans WHERE id = ? AND user_id = ?`),
			planID, userID).Scan(&id); err != nil {
			return notFound(err)
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM plan_alumni WHERE plan_id = ?`), planID); err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM networking_plans WHERE id = ? AND user_id = ?`), planID, userID); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
		return nil
	})
}

// UpdateEntryStatus sets the status of an entry in one of the user's plans.
func (s *SQLStore) UpdateEntryStatus(ctx context.Context, entryID, userID string, status EntryStatus) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE plan_alumni SET status = ?, updated_at = ?
		WHERE id = ? AND plan_id IN (SELECT id FROM networking_plans WHERE user_id = ?)`),
		string(status), s.ts(time.Now()), entryID, userID)
	if err != nil {
		return fmt.Errorf("update entry status: %w", err)
	}
	return rowsAffectedOne(res)
}
