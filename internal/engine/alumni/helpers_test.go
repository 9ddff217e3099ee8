package alumni

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "alumni.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedAlumnus(t *testing.T, s *SQLStore, rec AlumniRecord) AlumniRecord {
	t.Helper()
	if rec.Sport == "" {
		rec.Sport = "Rowing"
	}
	if rec.GraduationYear == 0 {
		rec.GraduationYear = 2010
	}
	if rec.Source == "" {
		rec.Source = SourcePublicRecord
	}
	stored, created, err := s.UpsertAlumniByEmail(context.Background(), rec)
	require.NoError(t, err)
	require.True(t, created)
	return *stored
}

func seedProfile(t *testing.T, s *SQLStore, p UserProfile) UserProfile {
	t.Helper()
	stored, err := s.UpsertProfile(context.Background(), p)
	require.NoError(t, err)
	return *stored
}

// fakeLLM answers every prompt with the next queued response, or fn.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	fn        func(prompt string) (string, error)
	prompts   []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.fn != nil {
		return f.fn(prompt)
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeLLM: no response queued")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// pickAll answers a plan prompt by recommending every listed candidate by index.
func pickAll(prompt string) (string, error) {
	var recs []string
	for _, line := range strings.Split(prompt, "\n") {
		num, rest, ok := strings.Cut(line, ". ")
		if !ok || num == "" || strings.Trim(num, "0123456789") != "" {
			continue
		}
		name, _, _ := strings.Cut(rest, " | ")
		recs = append(recs, `{"index":`+num+`,"full_name":"`+name+`","career_summary":"Summary","talking_points":["a","b","c"],"recommendation_reason":"Match"}`)
	}
	return `{"recommendations":[` + strings.Join(recs, ",") + `]}`, nil
}

type recordedPublish struct {
	channel string
	message []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []recordedPublish
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}
	b, _ := message.([]byte)
	p.sent = append(p.sent, recordedPublish{channel: channel, message: b})
	cmd.SetVal(1)
	return cmd
}
