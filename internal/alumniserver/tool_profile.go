package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// UserInput identifies the student a tool acts for.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the student"`
}

// ProfileSaveInput is the full onboarding profile.
type ProfileSaveInput struct {
	UserID              string   `json:"user_id" jsonschema:"ID of the student"`
	FullName            string   `json:"full_name,omitempty" jsonschema:"Student's full name"`
	Sport               string   `json:"sport,omitempty" jsonschema:"Varsity sport"`
	GraduationYear      int      `json:"graduation_year,omitempty" jsonschema:"Expected graduation year"`
	Major               string   `json:"major,omitempty" jsonschema:"Academic major"`
	Company             string   `json:"company,omitempty" jsonschema:"Current or most recent employer"`
	Role                string   `json:"role,omitempty" jsonschema:"Current or most recent role"`
	PrimaryIndustry     string   `json:"primary_industry,omitempty" jsonschema:"Main industry of interest, e.g. Finance"`
	SecondaryIndustries []string `json:"secondary_industries,omitempty" jsonschema:"Other industries of interest"`
	TargetRoles         []string `json:"target_roles,omitempty" jsonschema:"Roles the student is targeting"`
	PreferredLocations  []string `json:"preferred_locations,omitempty" jsonschema:"Cities or regions the student prefers"`
	GeographyPreference string   `json:"geography_preference,omitempty" jsonschema:"city, region or doesnt_matter"`
	CurrentStage        string   `json:"current_stage,omitempty" jsonschema:"exploring, recruiting, interviewing, referrals or relationship_building"`
	NetworkingIntensity string   `json:"networking_intensity,omitempty" jsonschema:"Weekly target: 5, 10, 20 or own_pace"`
	ExistingNetwork     string   `json:"existing_network,omitempty" jsonschema:"none, few_conversations or ongoing"`
	PastExperience      string   `json:"past_experience,omitempty" jsonschema:"Free-text summary of internships and jobs"`
}

func (in ProfileSaveInput) profile() alumni.UserProfile {
	return alumni.UserProfile{
		UserID:              in.UserID,
		FullName:            in.FullName,
		Sport:               in.Sport,
		GraduationYear:      in.GraduationYear,
		Major:               in.Major,
		Company:             in.Company,
		Role:                in.Role,
		PrimaryIndustry:     in.PrimaryIndustry,
		SecondaryIndustries: in.SecondaryIndustries,
		TargetRoles:         in.TargetRoles,
		PreferredLocations:  in.PreferredLocations,
		GeographyPreference: alumni.GeographyPreference(in.GeographyPreference),
		Stage:               alumni.Stage(in.CurrentStage),
		NetworkingIntensity: alumni.Intensity(in.NetworkingIntensity),
		ExistingNetwork:     alumni.ExistingNetwork(in.ExistingNetwork),
		PastExperience:      in.PastExperience,
	}
}

func registerProfileTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_save",
		Description: "Create or replace a student-athlete's networking profile: sport, graduation year, industries, target roles, locations, job-search stage and weekly networking intensity. Recommendations are driven by this profile.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ProfileSaveInput) (*mcp.CallToolResult, *alumni.UserProfile, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		p, err := svc.SaveProfile(ctx, input.profile())
		if err != nil {
			return nil, nil, toolutil.UserError("profile_save", err)
		}
		return nil, p, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_get",
		Description: "Get a student's networking profile.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UserInput) (*mcp.CallToolResult, *alumni.UserProfile, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		p, err := svc.GetProfile(ctx, input.UserID)
		if err != nil {
			return nil, nil, toolutil.UserError("profile_get", err)
		}
		return nil, p, nil
	})
}
