package alumni

import (
	"errors"
	"fmt"
)

// Input errors. Never retried.
var (
	ErrNoProfile    = errors.New("profile not found")
	ErrPlanNotFound = errors.New("plan not found")
	ErrNotFound     = errors.New("not found")
)

// ErrInsufficientCandidates is returned when filtering leaves no candidate to recommend.
var ErrInsufficientCandidates = errors.New("no candidates available")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnparseableResponseError means the completion text held no usable JSON.
// Raw is kept for diagnosis; callers surface the failure as retryable.
type UnparseableResponseError struct{ Raw string }

func (e *UnparseableResponseError) Error() string {
	return "could not parse recommendations from model response"
}

// EmptyRecommendationSetError means the response parsed but no element
// resolved to a real candidate.
type EmptyRecommendationSetError struct{ Raw string }

func (e *EmptyRecommendationSetError) Error() string {
	return "model response contained no usable recommendations"
}

// PersistenceError is a storage failure during plan writes. Fatal for the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
