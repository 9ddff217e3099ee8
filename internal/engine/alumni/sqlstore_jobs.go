package alumni

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const jobColumns = `id, title, company, location, salary_range, job_type, description, external_url,
	external_id, source, industry, seniority_level, posted_at, is_active, created_at, updated_at`

func prefixed(prefix, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// jobRow holds scan targets for the time columns of a job.
type jobRow struct {
	job                      Job
	posted, created, updated dbTime
}

func jobScanDest() (*jobRow, []any) {
	r := &jobRow{}
	j := &r.job
	return r, []any{&j.ID, &j.Title, &j.Company, &j.Location, &j.SalaryRange, &j.JobType, &j.Description,
		&j.ExternalURL, &j.ExternalID, &j.Source, &j.Industry, &j.SeniorityLevel, &r.posted, &j.IsActive,
		&r.created, &r.updated}
}

func (r *jobRow) record() *Job {
	j := r.job
	j.PostedAt = r.posted.Ptr()
	j.CreatedAt, j.UpdatedAt = r.created.Time, r.updated.Time
	return &j
}

// UpsertJob inserts j or, when (source, external_id) already exists, refreshes
// that posting and reactivates it.
func (s *SQLStore) UpsertJob(ctx context.Context, j Job) (*Job, bool, error) {
	now := time.Now().UTC()
	created := false

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		if j.ExternalID != "" {
			err := tx.QueryRowContext(ctx, s.q(`SELECT id FROM jobs WHERE source = ? AND external_id = ?`),
				j.Source, j.ExternalID).Scan(&existing)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lookup job: %w", err)
			}
		}

		if existing != "" {
			j.ID = existing
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE jobs SET title = ?, company = ?, location = ?, salary_range = ?,
				job_type = ?, description = ?, external_url = ?, industry = ?, seniority_level = ?, posted_at = ?,
				is_active = ?, updated_at = ?
				WHERE id = ?`),
				j.Title, j.Company, j.Location, j.SalaryRange, string(j.JobType), j.Description, j.ExternalURL,
				j.Industry, string(j.SeniorityLevel), s.nullTS(j.PostedAt), j.IsActive, s.ts(now), j.ID); err != nil {
				return fmt.Errorf("update job: %w", err)
			}
			return nil
		}

		j.ID = newID()
		created = true
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO jobs (`+jobColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			j.ID, j.Title, j.Company, j.Location, j.SalaryRange, string(j.JobType), j.Description, j.ExternalURL,
			j.ExternalID, j.Source, j.Industry, string(j.SeniorityLevel), s.nullTS(j.PostedAt), j.IsActive,
			s.ts(now), s.ts(now)); err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	got, err := s.job(ctx, j.ID, false)
	if err != nil {
		return nil, false, err
	}
	return got, created, nil
}

// GetJob returns an active job, or ErrNotFound.
func (s *SQLStore) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.job(ctx, id, true)
}

func (s *SQLStore) job(ctx context.Context, id string, activeOnly bool) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	args := []any{id}
	if activeOnly {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	r, dest := jobScanDest()
	if err := s.db.QueryRowContext(ctx, s.q(query), args...).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return r.record(), nil
}

// likePattern escapes LIKE wildcards in term and wraps it for substring match.
func likePattern(term string) string {
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + term + "%"
}

// ListJobs returns active jobs newest first and the total matching f.
func (s *SQLStore) ListJobs(ctx context.Context, f JobFilter) ([]Job, int, error) {
	where := []string{"is_active = ?"}
	args := []any{true}
	if v := strings.TrimSpace(f.Industry); v != "" {
		where = append(where, "industry = ?")
		args = append(args, v)
	}
	if v := strings.ToLower(strings.TrimSpace(f.Location)); v != "" {
		where = append(where, `LOWER(location) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(v))
	}
	if f.JobType != "" {
		where = append(where, "job_type = ?")
		args = append(args, string(f.JobType))
	}
	if f.Seniority != "" {
		where = append(where, "seniority_level = ?")
		args = append(args, string(f.Seniority))
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		where = append(where, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
		like := likePattern(term)
		args = append(args, like, like, like)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM jobs WHERE `+cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+jobColumns+` FROM jobs WHERE `+cond+`
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`), append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		r, dest := jobScanDest()
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *r.record())
	}
	return out, total, rows.Err()
}

const interactionColumns = `i.id, i.user_id, i.job_id, i.interaction_type, i.notes, i.created_at`

func (s *SQLStore) scanInteractions(ctx context.Context, where string, args ...any) ([]JobInteraction, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+interactionColumns+`, `+prefixed("j.", jobColumns)+`
		FROM user_job_interactions i JOIN jobs j ON j.id = i.job_id `+where), args...)
	if err != nil {
		return nil, fmt.Errorf("query job interactions: %w", err)
	}
	defer rows.Close()

	out := make([]JobInteraction, 0)
	for rows.Next() {
		var in JobInteraction
		var created dbTime
		dest := []any{&in.ID, &in.UserID, &in.JobID, &in.Type, &in.Notes, &created}
		r, jobDest := jobScanDest()
		if err := rows.Scan(append(dest, jobDest...)...); err != nil {
			return nil, fmt.Errorf("scan job interaction: %w", err)
		}
		in.CreatedAt = created.Time
		in.Job = r.record()
		out = append(out, in)
	}
	return out, rows.Err()
}

// UpsertJobInteraction records in, replacing notes and created_at of an
// existing row with the same user, job and type.
func (s *SQLStore) UpsertJobInteraction(ctx context.Context, in JobInteraction) (*JobInteraction, error) {
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, s.q(`INSERT INTO user_job_interactions
		(id, user_id, job_id, interaction_type, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, job_id, interaction_type) DO UPDATE
		SET notes = excluded.notes, created_at = excluded.created_at`),
		newID(), in.UserID, in.JobID, string(in.Type), in.Notes, s.ts(now)); err != nil {
		return nil, fmt.Errorf("upsert job interaction: %w", err)
	}
	got, err := s.scanInteractions(ctx, `WHERE i.user_id = ? AND i.job_id = ? AND i.interaction_type = ?`,
		in.UserID, in.JobID, string(in.Type))
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, ErrNotFound
	}
	return &got[0], nil
}

// LatestJobInteraction returns the user's most recent interaction with a job.
func (s *SQLStore) LatestJobInteraction(ctx context.Context, userID, jobID string) (*JobInteraction, error) {
	got, err := s.scanInteractions(ctx, `WHERE i.user_id = ? AND i.job_id = ? ORDER BY i.created_at DESC, i.id LIMIT 1`,
		userID, jobID)
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, ErrNotFound
	}
	return &got[0], nil
}

// ListJobInteractions returns the user's interactions newest first, optionally of one type.
func (s *SQLStore) ListJobInteractions(ctx context.Context, userID string, t InteractionType) ([]JobInteraction, error) {
	if t != "" {
		return s.scanInteractions(ctx, `WHERE i.user_id = ? AND i.interaction_type = ? ORDER BY i.created_at DESC, i.id`,
			userID, string(t))
	}
	return s.scanInteractions(ctx, `WHERE i.user_id = ? ORDER BY i.created_at DESC, i.id`, userID)
}

// DeleteJobInteraction removes one interaction; ErrNotFound when there was none.
func (s *SQLStore) DeleteJobInteraction(ctx context.Context, userID, jobID string, t InteractionType) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM user_job_interactions
		WHERE user_id = ? AND job_id = ? AND interaction_type = ?`), userID, jobID, string(t))
	if err != nil {
		return fmt.Errorf("delete job interaction: %w", err)
	}
	return rowsAffectedOne(res)
}
