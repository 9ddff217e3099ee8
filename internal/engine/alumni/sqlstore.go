package alumni

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema/sqlite/*.sql schema/postgres/*.sql
var schemaFS embed.FS

// SQLStore implements Store over database/sql, backed by either SQLite
// (modernc, local/dev/tests) or Postgres (pgx pool).
type SQLStore struct {
	db       *sql.DB
	pool     *pgxpool.Pool // nil for SQLite
	postgres bool
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (or creates) the SQLite database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	s := &SQLStore{db: db}
	if err := s.migrate(ctx, "schema/sqlite", func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return s, nil
}

// OpenPostgres connects a pgx pool, runs migrations and exposes the pool through database/sql.
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET search_path TO public")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &SQLStore{db: stdlib.OpenDBFromPool(pool), pool: pool, postgres: true}
	if err := s.migrate(ctx, "schema/postgres", func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	}); err != nil {
		_ = s.Close()
		return nil, err
	}

	slog.Info("alumni postgres connected", slog.String("addr", config.ConnConfig.Host))
	return s, nil
}

// Close releases the database handle (and pool, for Postgres).
func (s *SQLStore) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func (s *SQLStore) migrate(ctx context.Context, dir string, exec func(context.Context, string) error) error {
	entries, err := schemaFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if err := exec(ctx, string(data)); err != nil {
			return fmt.Errorf("migration %s: %w", entry.Name(), err)
		}
		slog.Debug("migration applied", slog.String("file", entry.Name()))
	}
	return nil
}

// q rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) q(query string) string {
	if !s.postgres {
		return query
	}
	return rebind(query)
}

func rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// ts converts t into the column representation of the active dialect.
func (s *SQLStore) ts(t time.Time) any {
	if s.postgres {
		return t.UTC()
	}
	return t.UTC().Format(tsLayout)
}

// nullTS is ts for nullable columns.
func (s *SQLStore) nullTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return s.ts(*t)
}

// Fixed-width so lexical order equals chronological order in SQLite.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// dbTime scans TIMESTAMPTZ values and SQLite text timestamps alike.
type dbTime struct {
	Time  time.Time
	Valid bool
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("dbTime: unsupported type %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{tsLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("dbTime: cannot parse %q", s)
}

// Ptr returns nil for NULL.
func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// jsonList is a []string stored as JSON text (SQLite) or JSONB (Postgres).
type jsonList []string

func (l *jsonList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = []string{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("jsonList: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("jsonList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

// jsonText scans a JSON document column as raw bytes.
type jsonText []byte

func (j *jsonText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case string:
		*j = []byte(v)
	case []byte:
		*j = append((*j)[:0], v...)
	default:
		return fmt.Errorf("jsonText: unsupported type %T", src)
	}
	return nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func newID() string { return uuid.NewString() }

// withTx runs fn in one transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("rollback failed", slog.Any("error", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// rowsAffectedOne returns ErrNotFound when an ownership-filtered write touched nothing.
func rowsAffectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
