package alumni

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

const (
	defaultActionLimit = 10
	maxActionLimit     = 100
)

// CreateAction stores a pending suggested action for the user.
func (s *Service) CreateAction(ctx context.Context, a SuggestedAction) (*SuggestedAction, error) {
	switch a.ActionType {
	case ActionCalendarEvent, ActionEmailDraft, ActionLinkedInMessage, ActionFollowUp:
	case "":
		return nil, invalidf("action_type is required")
	default:
		return nil, invalidf("invalid action_type %q (valid: calendar_event, email_draft, linkedin_message, follow_up)", a.ActionType)
	}
	if len(a.Payload) == 0 || !json.Valid(a.Payload) {
		return nil, invalidf("payload must be a JSON document")
	}
	a.Status = ActionPending
	a.CompletedAt = nil
	return s.store.InsertAction(ctx, a)
}

// ListActions returns the user's unexpired actions; status defaults to pending.
func (s *Service) ListActions(ctx context.Context, userID string, status ActionStatus, alumniID string, limit int) ([]SuggestedAction, error) {
	if status == "" {
		status = ActionPending
	}
	if !validActionStatus(status) {
		return nil, invalidf("invalid status %q", status)
	}
	switch {
	case limit <= 0:
		limit = defaultActionLimit
	case limit > maxActionLimit:
		limit = maxActionLimit
	}
	return s.store.ListActions(ctx, userID, ActionFilter{Status: status, AlumniID: alumniID, Limit: limit, Now: s.now()})
}

// UpdateActionStatus completes, dismisses or expires one of the user's actions.
func (s *Service) UpdateActionStatus(ctx context.Context, id, userID string, status ActionStatus) (*SuggestedAction, error) {
	if !validActionStatus(status) {
		return nil, invalidf("invalid status %q (valid: pending, completed, dismissed, expired)", status)
	}
	return s.store.UpdateActionStatus(ctx, id, userID, status, s.now().UTC())
}

func validActionStatus(s ActionStatus) bool {
	switch s {
	case ActionPending, ActionCompleted, ActionDismissed, ActionExpired:
		return true
	}
	return false
}

// TrackEvent records a user activity event and publishes it on EventsChannel.
// Publishing is best-effort.
func (s *Service) TrackEvent(ctx context.Context, userID, eventType string, data map[string]any) (*Event, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(eventType) == "" {
		return nil, invalidf("user_id and event_type are required")
	}
	e, err := s.store.InsertEvent(ctx, Event{UserID: userID, EventType: eventType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("track event: %w", err)
	}
	s.publish(ctx, *e)
	return e, nil
}

// trackBestEffort is TrackEvent for internal side effects: errors are logged only.
func (s *Service) trackBestEffort(ctx context.Context, userID, eventType string, data map[string]any) {
	if _, err := s.TrackEvent(ctx, userID, eventType, data); err != nil {
		slog.Warn("event not tracked", slog.String("event_type", eventType), slog.Any("error", err))
	}
}

func (s *Service) publish(ctx context.Context, e Event) {
	if s.pub == nil {
		return
	}
	msg, err := json.Marshal(e)
	if err != nil {
		slog.Warn("event not published", slog.Any("error", err))
		return
	}
	if err := s.pub.Publish(ctx, EventsChannel, msg).Err(); err != nil {
		slog.Warn("event not published", slog.String("event_type", e.EventType), slog.Any("error", err))
	}
}
