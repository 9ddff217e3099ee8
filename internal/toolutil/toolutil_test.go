package toolutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_alumni/internal/engine"
	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", &alumni.ValidationError{Msg: "bad"}, KindInput},
		{"no profile", fmt.Errorf("wrap: %w", alumni.ErrNoProfile), KindInput},
		{"no candidates", alumni.ErrInsufficientCandidates, KindInput},
		{"plan not found", alumni.ErrPlanNotFound, KindNotFound},
		{"not found", alumni.ErrNotFound, KindNotFound},
		{"unparseable", &alumni.UnparseableResponseError{Raw: "x"}, KindRetryable},
		{"empty", &alumni.EmptyRecommendationSetError{}, KindRetryable},
		{"upstream", fmt.Errorf("generate: %w", &engine.ServiceError{Err: errors.New("503")}), KindRetryable},
		{"persistence", &alumni.PersistenceError{Op: "create plan", Err: errors.New("disk full")}, KindFatal},
		{"unknown", errors.New("boom"), KindFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserError(t *testing.T) {
	if UserError("plan_generate", nil) != nil {
		t.Error("nil error should stay nil")
	}

	got := UserError("plan_generate", &alumni.ValidationError{Msg: "count must be at most 50"})
	if got.Error() != "count must be at most 50" {
		t.Errorf("validation message not passed through: %q", got)
	}

	timeout := &engine.ServiceError{Timeout: true, Err: context.DeadlineExceeded}
	if got := UserError("plan_generate", timeout); !strings.Contains(got.Error(), "timed out") {
		t.Errorf("timeout message = %q", got)
	}

	fatal := UserError("plan_generate", &alumni.PersistenceError{Op: "create plan", Err: errors.New("secret dsn")})
	if strings.Contains(fatal.Error(), "secret dsn") {
		t.Errorf("fatal error leaked internals: %q", fatal)
	}

	notFound := UserError("plan_get", alumni.ErrPlanNotFound)
	if !errors.Is(notFound, alumni.ErrPlanNotFound) {
		t.Errorf("not-found error should wrap the sentinel: %v", notFound)
	}
}

func TestRequire(t *testing.T) {
	if err := Require("user_id", "u1", "plan_id", "p1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Require("user_id", "u1", "plan_id", "  ")
	if err == nil || err.Error() != "plan_id is required" {
		t.Errorf("Require = %v, want plan_id is required", err)
	}
}
