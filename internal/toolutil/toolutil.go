// Package toolutil provides shared helpers for go_alumni MCP tools.
package toolutil

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_alumni/internal/engine"
	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
)

// ErrorKind classifies a service error for the client.
type ErrorKind string

const (
	KindInput     ErrorKind = "input"
	KindNotFound  ErrorKind = "not_found"
	KindRetryable ErrorKind = "retryable"
	KindFatal     ErrorKind = "fatal"
)

// Classify maps a service error to the kind of message the client should see.
func Classify(err error) ErrorKind {
	var (
		validation  *alumni.ValidationError
		unparseable *alumni.UnparseableResponseError
		empty       *alumni.EmptyRecommendationSetError
		upstream    *engine.ServiceError
		persistence *alumni.PersistenceError
	)
	switch {
	case errors.As(err, &validation), errors.Is(err, alumni.ErrNoProfile), errors.Is(err, alumni.ErrInsufficientCandidates):
		return KindInput
	case errors.Is(err, alumni.ErrPlanNotFound), errors.Is(err, alumni.ErrNotFound):
		return KindNotFound
	case errors.As(err, &persistence):
		return KindFatal
	case errors.As(err, &unparseable), errors.As(err, &empty), errors.As(err, &upstream):
		return KindRetryable
	}
	return KindFatal
}

// UserError turns a service error into the message returned to the MCP client.
// Internal details of fatal errors are logged, not returned.
func UserError(tool string, err error) error {
	if err == nil {
		return nil
	}
	var validation *alumni.ValidationError
	var upstream *engine.ServiceError

	switch Classify(err) {
	case KindInput:
		switch {
		case errors.As(err, &validation):
			return errors.New(validation.Msg)
		case errors.Is(err, alumni.ErrNoProfile):
			return errors.New("complete your profile first: no profile found for this user")
		default:
			return errors.New("no new alumni match your profile right now; try again after the directory grows")
		}
	case KindNotFound:
		return fmt.Errorf("%s: %w", tool, err)
	case KindRetryable:
		slog.Warn("tool failed, retryable", slog.String("tool", tool), slog.Any("error", err))
		if errors.As(err, &upstream) && upstream.Timeout {
			return errors.New("the recommendation service timed out, please try again")
		}
		return errors.New("could not generate recommendations, please try again")
	}
	slog.Error("tool failed", slog.String("tool", tool), slog.Any("error", err))
	return fmt.Errorf("%s failed, please try again later", tool)
}

// Require returns an error naming the first blank field, or nil.
// fields alternates name, value.
func Require(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%s is required", fields[i])
		}
	}
	return nil
}
