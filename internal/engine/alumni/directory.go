package alumni

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
)

const (
	minGraduationYear = 1900
	maxGraduationYear = 2040

	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// AlumniSubmission is a self-submitted directory entry.
type AlumniSubmission struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email,omitempty"`
	Sport          string `json:"sport"`
	GraduationYear int    `json:"graduation_year"`
	Company        string `json:"company,omitempty"`
	Role           string `json:"role,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Location       string `json:"location,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
}

// SubmitAlumnus adds or refreshes a self-submitted alumnus. Entries with a
// known email update the existing row. The bool reports whether a row was created.
func (s *Service) SubmitAlumnus(ctx context.Context, in AlumniSubmission) (*AlumniRecord, bool, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Sport = strings.TrimSpace(in.Sport)
	if in.FullName == "" || in.Sport == "" || in.GraduationYear == 0 {
		return nil, false, invalidf("name, sport and graduation year are required")
	}
	if in.GraduationYear < minGraduationYear || in.GraduationYear > maxGraduationYear {
		return nil, false, invalidf("invalid graduation year %d", in.GraduationYear)
	}
	if in.Email = strings.TrimSpace(in.Email); in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return nil, false, invalidf("invalid email %q", in.Email)
		}
	}

	rec, created, err := s.store.UpsertAlumniByEmail(ctx, AlumniRecord{
		FullName:       in.FullName,
		Email:          in.Email,
		Sport:          in.Sport,
		GraduationYear: in.GraduationYear,
		Company:        strings.TrimSpace(in.Company),
		Role:           strings.TrimSpace(in.Role),
		Industry:       strings.TrimSpace(in.Industry),
		Location:       strings.TrimSpace(in.Location),
		LinkedInURL:    strings.TrimSpace(in.LinkedInURL),
		IsPublic:       true,
		IsVerified:     false,
		Source:         SourceOptIn,
	})
	if err != nil {
		return nil, false, err
	}
	slog.Info("alumni submitted", slog.String("alumni_id", rec.ID), slog.Bool("created", created))
	return rec, created, nil
}

// SearchAlumni searches the public directory.
func (s *Service) SearchAlumni(ctx context.Context, f AlumniFilter) ([]AlumniRecord, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = defaultSearchLimit
	case f.Limit > maxSearchLimit:
		f.Limit = maxSearchLimit
	}
	return s.store.SearchAlumni(ctx, f)
}

// GetAlumni returns one directory entry; private entries are not found.
func (s *Service) GetAlumni(ctx context.Context, id string) (*AlumniRecord, error) {
	a, err := s.alumnus(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsPublic {
		return nil, ErrNotFound
	}
	return a, nil
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	return s.profile(ctx, userID)
}

// SaveProfile validates and stores the owner's profile.
func (s *Service) SaveProfile(ctx context.Context, p UserProfile) (*UserProfile, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, invalidf("user_id is required")
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	p.SecondaryIndustries = trimList(p.SecondaryIndustries)
	p.TargetRoles = trimList(p.TargetRoles)
	p.PreferredLocations = trimList(p.PreferredLocations)

	saved, err := s.store.UpsertProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}

func validateProfile(p UserProfile) error {
	switch p.Stage {
	case "", StageExploring, StageRecruiting, StageInterviewing, StageReferrals, StageRelationshipBuilding:
	default:
		return invalidf("invalid current_stage %q", p.Stage)
	}
	switch p.NetworkingIntensity {
	case "", Intensity5, Intensity10, Intensity20, IntensityOwnPace:
	default:
		return invalidf("invalid networking_intensity %q (valid: 5, 10, 20, own_pace)", p.NetworkingIntensity)
	}
	switch p.GeographyPreference {
	case "", GeoCity, GeoRegion, GeoDoesntMatter:
	default:
		return invalidf("invalid geography_preference %q", p.GeographyPreference)
	}
	switch p.ExistingNetwork {
	case "", NetworkNone, NetworkFewConversations, NetworkOngoing:
	default:
		return invalidf("invalid existing_network %q", p.ExistingNetwork)
	}
	if p.GraduationYear != 0 && (p.GraduationYear < minGraduationYear || p.GraduationYear > maxGraduationYear) {
		return invalidf("invalid graduation year %d", p.GraduationYear)
	}
	return nil
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
