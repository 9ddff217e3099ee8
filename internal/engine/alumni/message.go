package alumni

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

const messageMaxTokens = 500

// DraftMessage asks the model for a 150-200 word outreach message from the
// user to one alumnus. tone defaults to neutral.
func (s *Service) DraftMessage(ctx context.Context, userID, alumniID string, tone Tone) (string, error) {
	if tone == "" {
		tone = ToneNeutral
	}
	if _, ok := toneInstructions[tone]; !ok {
		return "", invalidf("invalid tone %q (valid: friendly, neutral, formal)", tone)
	}

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return "", err
	}
	alumnus, err := s.alumnus(ctx, alumniID)
	if err != nil {
		return "", err
	}

	text, err := s.llm.Complete(ctx, BuildMessagePrompt(*profile, *alumnus, tone), messageMaxTokens)
	if err != nil {
		return "", fmt.Errorf("draft message: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		engine.IncrEmptyResponses()
		return "", &engine.ServiceError{Err: errors.New("empty message draft")}
	}

	s.trackBestEffort(ctx, userID, "message_drafted", map[string]any{"alumni_id": alumniID, "tone": string(tone)})
	return text, nil
}

// RecordMessage stores a message the user sent to an alumnus.
func (s *Service) RecordMessage(ctx context.Context, m Message) (*Message, error) {
	switch m.SentVia {
	case SentLinkedIn, SentEmail, SentCopied:
	default:
		return nil, invalidf("invalid sent_via %q (valid: linkedin, email, copied)", m.SentVia)
	}
	if strings.TrimSpace(m.Content) == "" {
		return nil, invalidf("message_content is required")
	}
	if _, err := s.alumnus(ctx, m.AlumniID); err != nil {
		return nil, err
	}

	stored, err := s.store.InsertMessage(ctx, m)
	if err != nil {
		return nil, err
	}
	s.trackBestEffort(ctx, m.UserID, "message_sent", map[string]any{"alumni_id": m.AlumniID, "sent_via": string(m.SentVia)})
	return stored, nil
}

// ListMessages returns messages the user sent, optionally filtered to one alumnus.
func (s *Service) ListMessages(ctx context.Context, userID, alumniID string) ([]Message, error) {
	return s.store.ListMessages(ctx, userID, alumniID)
}

func (s *Service) alumnus(ctx context.Context, id string) (*AlumniRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidf("alumni_id is required")
	}
	a, err := s.store.GetAlumni(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load alumni: %w", err)
	}
	return a, nil
}
