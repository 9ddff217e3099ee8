package alumni

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const connectionColumns = `n.id, n.user_id, n.alumni_id, n.status, n.contacted, n.contacted_at, n.notes, n.created_at, n.updated_at`

func (s *SQLStore) scanConnections(ctx context.Context, query string, args ...any) ([]Connection, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}
	defer rows.Close()

	out := make([]Connection, 0)
	for rows.Next() {
		var c Connection
		var contactedAt, created, updated dbTime
		dest := []any{&c.ID, &c.UserID, &c.AlumniID, &c.Status, &c.Contacted, &contactedAt, &c.Notes, &created, &updated}
		a, alumniDest := alumniScanDest()
		if err := rows.Scan(append(dest, alumniDest...)...); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		c.ContactedAt = contactedAt.Ptr()
		c.CreatedAt, c.UpdatedAt = created.Time, updated.Time
		c.Alumni = a.record()
		out = append(out, c)
	}
	return out, rows.Err()
}

const connectionSelect = `SELECT ` + connectionColumns + `, ` + `%s FROM user_networks n JOIN alumni a ON a.id = n.alumni_id `

func connectionQuery(where string) string {
	return fmt.Sprintf(connectionSelect, alumniColumns("a.")) + where
}

// SaveConnection adds an alumnus to the user's network. Saving twice returns the existing row.
func (s *SQLStore) SaveConnection(ctx context.Context, c Connection) (*Connection, error) {
	now := time.Now().UTC()
	if c.Status == "" {
		c.Status = ConnInterested
	}
	if _, err := s.db.ExecContext(ctx, s.q(`INSERT INTO user_networks
		(id, user_id, alumni_id, status, contacted, contacted_at, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, alumni_id) DO NOTHING`),
		newID(), c.UserID, c.AlumniID, string(c.Status), c.Contacted, s.nullTS(c.ContactedAt), c.Notes,
		s.ts(now), s.ts(now)); err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}
	got, err := s.scanConnections(ctx, connectionQuery(`WHERE n.user_id = ? AND n.alumni_id = ?`), c.UserID, c.AlumniID)
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, ErrNotFound
	}
	return &got[0], nil
}

// GetConnection returns one of the user's connections.
func (s *SQLStore) GetConnection(ctx context.Context, id, userID string) (*Connection, error) {
	got, err := s.scanConnections(ctx, connectionQuery(`WHERE n.id = ? AND n.user_id = ?`), id, userID)
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, ErrNotFound
	}
	return &got[0], nil
}

// UpdateConnection overwrites status, notes and contact state of an owned connection.
func (s *SQLStore) UpdateConnection(ctx context.Context, c Connection) (*Connection, error) {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE user_networks
		SET status = ?, contacted = ?, contacted_at = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		string(c.Status), c.Contacted, s.nullTS(c.ContactedAt), c.Notes, s.ts(time.Now()), c.ID, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("update connection: %w", err)
	}
	if err := rowsAffectedOne(res); err != nil {
		return nil, err
	}
	return s.GetConnection(ctx, c.ID, c.UserID)
}

// ListConnections returns the user's network, newest first, optionally by status.
func (s *SQLStore) ListConnections(ctx context.Context, userID string, status ConnectionStatus) ([]Connection, error) {
	if status != "" {
		return s.scanConnections(ctx, connectionQuery(`WHERE n.user_id = ? AND n.status = ? ORDER BY n.created_at DESC, n.id`),
			userID, string(status))
	}
	return s.scanConnections(ctx, connectionQuery(`WHERE n.user_id = ? ORDER BY n.created_at DESC, n.id`), userID)
}

// InsertMessage records a sent message.
func (s *SQLStore) InsertMessage(ctx context.Context, m Message) (*Message, error) {
	m.ID = newID()
	m.CreatedAt = time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, s.q(`INSERT INTO messages (id, user_id, alumni_id, message_content, sent_via, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		m.ID, m.UserID, m.AlumniID, m.Content, string(m.SentVia), s.ts(m.CreatedAt)); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &m, nil
}

// ListMessages returns messages the user sent, optionally to one alumnus, newest first.
func (s *SQLStore) ListMessages(ctx context.Context, userID, alumniID string) ([]Message, error) {
	query := `SELECT id, user_id, alumni_id, message_content, sent_via, created_at FROM messages WHERE user_id = ?`
	args := []any{userID}
	if alumniID != "" {
		query += ` AND alumni_id = ?`
		args = append(args, alumniID)
	}
	rows, err := s.db.QueryContext(ctx, s.q(query+` ORDER BY created_at DESC, id`), args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		var created dbTime
		if err := rows.Scan(&m.ID, &m.UserID, &m.AlumniID, &m.Content, &m.SentVia, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = created.Time
		out = append(out, m)
	}
	return out, rows.Err()
}

const actionColumns = `id, user_id, action_type, payload, alumni_id, ai_reasoning, confidence_score,
	status, expires_at, completed_at, created_at`

func scanAction(row rowScanner) (*SuggestedAction, error) {
	var a SuggestedAction
	var payload jsonText
	var alumniID nullableString
	var expires, completed, created dbTime
	if err := row.Scan(&a.ID, &a.UserID, &a.ActionType, &payload, &alumniID, &a.AIReasoning,
		&a.ConfidenceScore, &a.Status, &expires, &completed, &created); err != nil {
		return nil, err
	}
	a.Payload = json.RawMessage(payload)
	a.AlumniID = string(alumniID)
	a.ExpiresAt, a.CompletedAt = expires.Ptr(), completed.Ptr()
	a.CreatedAt = created.Time
	return &a, nil
}

// InsertAction stores a suggested action.
func (s *SQLStore) InsertAction(ctx context.Context, a SuggestedAction) (*SuggestedAction, error) {
	a.ID = newID()
	a.CreatedAt = time.Now().UTC()
	if a.Status == "" {
		a.Status = ActionPending
	}
	if len(a.Payload) == 0 {
		a.Payload = json.RawMessage(`{}`)
	}
	if _, err := s.db.ExecContext(ctx, s.q(`INSERT INTO suggested_actions (`+actionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.UserID, string(a.ActionType), string(a.Payload), nullString(a.AlumniID), a.AIReasoning,
		a.ConfidenceScore, string(a.Status), s.nullTS(a.ExpiresAt), s.nullTS(a.CompletedAt), s.ts(a.CreatedAt)); err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}
	return &a, nil
}

// ListActions returns the user's unexpired actions with the given status, newest first.
func (s *SQLStore) ListActions(ctx context.Context, userID string, f ActionFilter) ([]SuggestedAction, error) {
	query := `SELECT ` + actionColumns + ` FROM suggested_actions
		WHERE user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)`
	args := []any{userID, string(f.Status), s.ts(f.Now)}
	if f.AlumniID != "" {
		query += ` AND alumni_id = ?`
		args = append(args, f.AlumniID)
	}
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, s.q(query+` ORDER BY created_at DESC, id LIMIT ?`), args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	out := make([]SuggestedAction, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateActionStatus moves an owned action to status; completed actions get completed_at.
func (s *SQLStore) UpdateActionStatus(ctx context.Context, id, userID string, status ActionStatus, at time.Time) (*SuggestedAction, error) {
	var completed *time.Time
	if status == ActionCompleted {
		completed = &at
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE suggested_actions SET status = ?, completed_at = ?
		WHERE id = ? AND user_id = ?`), string(status), s.nullTS(completed), id, userID)
	if err != nil {
		return nil, fmt.Errorf("update action: %w", err)
	}
	if err := rowsAffectedOne(res); err != nil {
		return nil, err
	}
	a, err := scanAction(s.db.QueryRowContext(ctx, s.q(`SELECT `+actionColumns+` FROM suggested_actions WHERE id = ?`), id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// InsertEvent appends one activity event.
func (s *SQLStore) InsertEvent(ctx context.Context, e Event) (*Event, error) {
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	if e.Data == nil {
		data = []byte(`{}`)
	}
	if _, err := s.db.ExecContext(ctx, s.q(`INSERT INTO user_events (id, user_id, event_type, event_data, created_at)
		VALUES (?, ?, ?, ?, ?)`), e.ID, e.UserID, e.EventType, string(data), s.ts(e.CreatedAt)); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &e, nil
}

// nullableString scans NULL as "".
type nullableString string

func (n *nullableString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = ""
	case string:
		*n = nullableString(v)
	case []byte:
		*n = nullableString(v)
	default:
		return fmt.Errorf("nullableString: unsupported type %T", src)
	}
	return nil
}
