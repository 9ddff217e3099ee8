package alumni

import (
	"context"
	"errors"
	"fmt"
)

// ConnectionUpdate carries the fields to change; nil leaves a field as is.
type ConnectionUpdate struct {
	ID        string
	UserID    string
	Status    *ConnectionStatus
	Notes     *string
	Contacted *bool
}

func validConnectionStatus(s ConnectionStatus) bool {
	switch s {
	case ConnInterested, ConnAwaitingReply, ConnResponseNeeded, ConnMeetingScheduled, ConnMet:
		return true
	}
	return false
}

// SaveConnection adds a public alumnus to the user's network.
func (s *Service) SaveConnection(ctx context.Context, userID, alumniID, notes string) (*Connection, error) {
	if _, err := s.GetAlumni(ctx, alumniID); err != nil {
		return nil, err
	}
	c, err := s.store.SaveConnection(ctx, Connection{UserID: userID, AlumniID: alumniID, Status: ConnInterested, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}
	s.trackBestEffort(ctx, userID, "connection_saved", map[string]any{"alumni_id": alumniID})
	return c, nil
}

// ListConnections returns the user's network, optionally by status.
func (s *Service) ListConnections(ctx context.Context, userID string, status ConnectionStatus) ([]Connection, error) {
	if status != "" && !validConnectionStatus(status) {
		return nil, invalidf("invalid status %q (valid: interested, awaiting_reply, response_needed, meeting_scheduled, met)", status)
	}
	return s.store.ListConnections(ctx, userID, status)
}

// UpdateConnection changes status, notes or contact state of one of the user's connections.
// Marking contacted stamps contacted_at once.
func (s *Service) UpdateConnection(ctx context.Context, u ConnectionUpdate) (*Connection, error) {
	if u.Status == nil && u.Notes == nil && u.Contacted == nil {
		return nil, invalidf("at least one of status, notes or contacted must be provided")
	}
	if u.Status != nil && !validConnectionStatus(*u.Status) {
		return nil, invalidf("invalid status %q", *u.Status)
	}

	c, err := s.store.GetConnection(ctx, u.ID, u.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load connection: %w", err)
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Contacted != nil {
		c.Contacted = *u.Contacted
		switch {
		case c.Contacted && c.ContactedAt == nil:
			now := s.now().UTC()
			c.ContactedAt = &now
		case !c.Contacted:
			c.ContactedAt = nil
		}
	}
	return s.store.UpdateConnection(ctx, *c)
}
