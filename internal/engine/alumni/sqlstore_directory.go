package alumni

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func alumniColumns(prefix string) string {
	cols := []string{"id", "full_name", "company", "role", "industry", "sport", "graduation_year",
		"location", "linkedin_url", "email", "is_public", "is_verified", "source", "created_at", "updated_at"}
	for i, c := range cols {
		cols[i] = prefix + c
	}
	return strings.Join(cols, ", ")
}

// alumniRow holds scan targets for the nullable alumni columns.
type alumniRow struct {
	rec                                               AlumniRecord
	company, role, industry, location, linkedin, mail sql.NullString
	created, updated                                  dbTime
}

func alumniScanDest() (*alumniRow, []any) {
	r := &alumniRow{}
	return r, []any{&r.rec.ID, &r.rec.FullName, &r.company, &r.role, &r.industry, &r.rec.Sport,
		&r.rec.GraduationYear, &r.location, &r.linkedin, &r.mail, &r.rec.IsPublic, &r.rec.IsVerified,
		&r.rec.Source, &r.created, &r.updated}
}

func (r *alumniRow) record() *AlumniRecord {
	a := r.rec
	a.Company, a.Role, a.Industry = r.company.String, r.role.String, r.industry.String
	a.Location, a.LinkedInURL, a.Email = r.location.String, r.linkedin.String, r.mail.String
	a.CreatedAt, a.UpdatedAt = r.created.Time, r.updated.Time
	return &a
}

func collectAlumni(rows *sql.Rows) ([]AlumniRecord, error) {
	out := make([]AlumniRecord, 0)
	for rows.Next() {
		r, dest := alumniScanDest()
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan alumni: %w", err)
		}
		out = append(out, *r.record())
	}
	return out, rows.Err()
}

// GetAlumni returns one directory entry by id.
func (s *SQLStore) GetAlumni(ctx context.Context, id string) (*AlumniRecord, error) {
	r, dest := alumniScanDest()
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT `+alumniColumns("")+` FROM alumni WHERE id = ?`), id).
		Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	return r.record(), nil
}

// SearchAlumni returns public alumni matching f, alphabetically by name.
func (s *SQLStore) SearchAlumni(ctx context.Context, f AlumniFilter) ([]AlumniRecord, error) {
	where := []string{"is_public = ?"}
	args := []any{true}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		where = append(where, "(LOWER(full_name) LIKE ? OR LOWER(COALESCE(company, '')) LIKE ? OR LOWER(COALESCE(role, '')) LIKE ?)")
		like := "%" + term + "%"
		args = append(args, like, like, like)
	}
	if v := strings.TrimSpace(f.Industry); v != "" {
		where = append(where, "industry = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.Sport); v != "" {
		where = append(where, "LOWER(sport) = ?")
		args = append(args, strings.ToLower(v))
	}
	if v := strings.ToLower(strings.TrimSpace(f.Company)); v != "" {
		where = append(where, "LOWER(COALESCE(company, '')) LIKE ?")
		args = append(args, "%"+v+"%")
	}
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+alumniColumns("")+` FROM alumni
		WHERE `+strings.Join(where, " AND ")+` ORDER BY full_name, id LIMIT ?`), args...)
	if err != nil {
		return nil, fmt.Errorf("search alumni: %w", err)
	}
	defer rows.Close()
	return collectAlumni(rows)
}

// UpsertAlumniByEmail inserts rec or, when rec.Email already exists, updates
// that row's career fields. The bool reports whether a row was created.
func (s *SQLStore) UpsertAlumniByEmail(ctx context.Context, rec AlumniRecord) (*AlumniRecord, bool, error) {
	now := time.Now().UTC()
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	created := false

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		if rec.Email != "" {
			err := tx.QueryRowContext(ctx, s.q(`SELECT id FROM alumni WHERE email = ?`), rec.Email).Scan(&existing)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lookup email: %w", err)
			}
		}

		if existing != "" {
			rec.ID = existing
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE alumni SET full_name = ?, company = ?, role = ?, industry = ?,
				sport = ?, graduation_year = ?, location = ?, linkedin_url = ?, is_public = ?, updated_at = ?
				WHERE id = ?`),
				rec.FullName, nullString(rec.Company), nullString(rec.Role), nullString(rec.Industry),
				rec.Sport, rec.GraduationYear, nullString(rec.Location), nullString(rec.LinkedInURL),
				rec.IsPublic, s.ts(now), rec.ID); err != nil {
				return fmt.Errorf("update alumni: %w", err)
			}
			return nil
		}

		rec.ID = newID()
		created = true
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO alumni (`+alumniColumns("")+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			rec.ID, rec.FullName, nullString(rec.Company), nullString(rec.Role), nullString(rec.Industry),
			rec.Sport, rec.GraduationYear, nullString(rec.Location), nullString(rec.LinkedInURL),
			nullString(rec.Email), rec.IsPublic, rec.IsVerified, string(rec.Source), s.ts(now), s.ts(now)); err != nil {
			return fmt.Errorf("insert alumni: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	stored, err := s.GetAlumni(ctx, rec.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// ListAlumniBatch pages over the whole directory, public or not.
func (s *SQLStore) ListAlumniBatch(ctx context.Context, offset, limit int) ([]AlumniRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+alumniColumns("")+` FROM alumni
		ORDER BY created_at, id LIMIT ? OFFSET ?`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alumni batch: %w", err)
	}
	defer rows.Close()
	return collectAlumni(rows)
}

// SetAlumniIndustry overwrites an alumnus' industry; nil clears it.
func (s *SQLStore) SetAlumniIndustry(ctx context.Context, id string, industry *string) error {
	var v any
	if industry != nil {
		v = *industry
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE alumni SET industry = ?, updated_at = ? WHERE id = ?`),
		v, s.ts(time.Now()), id)
	if err != nil {
		return fmt.Errorf("set industry: %w", err)
	}
	return rowsAffectedOne(res)
}

const profileColumns = `user_id, full_name, sport, graduation_year, major, company, role, primary_industry,
	secondary_industries, target_roles, preferred_locations, geography_preference, current_stage,
	networking_intensity, existing_network, past_experience, created_at, updated_at`

// GetProfile returns the student's profile.
func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var p UserProfile
	var secondary, roles, locations jsonList
	var created, updated dbTime
	err := s.db.QueryRowContext(ctx, s.q(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`), userID).Scan(
		&p.UserID, &p.FullName, &p.Sport, &p.GraduationYear, &p.Major, &p.Company, &p.Role, &p.PrimaryIndustry,
		&secondary, &roles, &locations, &p.GeographyPreference, &p.Stage,
		&p.NetworkingIntensity, &p.ExistingNetwork, &p.PastExperience, &created, &updated,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.SecondaryIndustries, p.TargetRoles, p.PreferredLocations = secondary, roles, locations
	p.CreatedAt, p.UpdatedAt = created.Time, updated.Time
	return &p, nil
}

// UpsertProfile writes the whole profile row, keeping the original created_at.
func (s *SQLStore) UpsertProfile(ctx context.Context, p UserProfile) (*UserProfile, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = excluded.full_name, sport = excluded.sport, graduation_year = excluded.graduation_year,
			major = excluded.major, company = excluded.company, role = excluded.role,
			primary_industry = excluded.primary_industry, secondary_industries = excluded.secondary_industries,
			target_roles = excluded.target_roles, preferred_locations = excluded.preferred_locations,
			geography_preference = excluded.geography_preference, current_stage = excluded.current_stage,
			networking_intensity = excluded.networking_intensity, existing_network = excluded.existing_network,
			past_experience = excluded.past_experience, updated_at = excluded.updated_at`),
		p.UserID, p.FullName, p.Sport, p.GraduationYear, p.Major, p.Company, p.Role, p.PrimaryIndustry,
		encodeList(p.SecondaryIndustries), encodeList(p.TargetRoles), encodeList(p.PreferredLocations),
		string(p.GeographyPreference), string(p.Stage), string(p.NetworkingIntensity),
		string(p.ExistingNetwork), p.PastExperience, s.ts(now), s.ts(now))
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.GetProfile(ctx, p.UserID)
}
