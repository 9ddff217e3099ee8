package alumniserver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// ActionCreateInput creates a suggested action.
type ActionCreateInput struct {
	UserID          string         `json:"user_id" jsonschema:"ID of the student"`
	ActionType      string         `json:"action_type" jsonschema:"calendar_event, email_draft, linkedin_message or follow_up"`
	Payload         map[string]any `json:"payload" jsonschema:"Action details, e.g. {\"title\":\"Coffee chat\",\"date\":\"2025-03-01\"}"`
	AlumniID        string         `json:"alumni_id,omitempty" jsonschema:"Related alumni ID"`
	Reasoning       string         `json:"ai_reasoning,omitempty" jsonschema:"Why this action is suggested"`
	ConfidenceScore float64        `json:"confidence_score,omitempty" jsonschema:"Confidence between 0 and 1"`
	ExpiresInHours  int            `json:"expires_in_hours,omitempty" jsonschema:"Hide the action after this many hours"`
}

// ActionListInput lists suggested actions.
type ActionListInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	Status   string `json:"status,omitempty" jsonschema:"pending (default), completed, dismissed or expired"`
	AlumniID string `json:"alumni_id,omitempty" jsonschema:"Only actions about this alumnus"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 10, max 100)"`
}

// ActionUpdateInput changes the status of an action.
type ActionUpdateInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	ActionID string `json:"action_id" jsonschema:"Action ID from action_list"`
	Status   string `json:"status" jsonschema:"completed, dismissed, expired or pending"`
}

// EventTrackInput records a user activity event.
type EventTrackInput struct {
	UserID    string         `json:"user_id" jsonschema:"ID of the student"`
	EventType string         `json:"event_type" jsonschema:"Event name, e.g. profile_viewed"`
	Data      map[string]any `json:"event_data,omitempty" jsonschema:"Free-form event attributes"`
}

// ActionView is a SuggestedAction with its payload decoded.
type ActionView struct {
	ID              string         `json:"id"`
	ActionType      string         `json:"action_type"`
	Payload         map[string]any `json:"payload"`
	AlumniID        string         `json:"alumni_id,omitempty"`
	AIReasoning     string         `json:"ai_reasoning,omitempty"`
	ConfidenceScore float64        `json:"confidence_score,omitempty"`
	Status          string         `json:"status"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ActionListResult is a list of suggested actions.
type ActionListResult struct {
	Actions []ActionView `json:"actions"`
	Count   int          `json:"count"`
}

func actionView(a *alumni.SuggestedAction) *ActionView {
	v := &ActionView{
		ID: a.ID, ActionType: string(a.ActionType), AlumniID: a.AlumniID,
		AIReasoning: a.AIReasoning, ConfidenceScore: a.ConfidenceScore, Status: string(a.Status),
		ExpiresAt: a.ExpiresAt, CompletedAt: a.CompletedAt, CreatedAt: a.CreatedAt,
	}
	if len(a.Payload) > 0 {
		// Payloads are validated on insert; a non-object payload is wrapped.
		if err := json.Unmarshal(a.Payload, &v.Payload); err != nil {
			var raw any
			_ = json.Unmarshal(a.Payload, &raw)
			v.Payload = map[string]any{"value": raw}
		}
	}
	return v
}

func registerActionTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "action_create",
		Description: "Create a pending suggested action for the student: a calendar event, email draft, LinkedIn message or follow-up reminder.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ActionCreateInput) (*mcp.CallToolResult, *ActionView, error) {
		if err := toolutil.Require("user_id", input.UserID, "action_type", input.ActionType); err != nil {
			return nil, nil, err
		}
		if input.Payload == nil {
			return nil, nil, errors.New("payload is required")
		}
		payload, err := json.Marshal(input.Payload)
		if err != nil {
			return nil, nil, err
		}
		a := alumni.SuggestedAction{
			UserID: input.UserID, ActionType: alumni.ActionType(input.ActionType), Payload: payload,
			AlumniID: input.AlumniID, AIReasoning: input.Reasoning, ConfidenceScore: input.ConfidenceScore,
		}
		if input.ExpiresInHours > 0 {
			expires := time.Now().UTC().Add(time.Duration(input.ExpiresInHours) * time.Hour)
			a.ExpiresAt = &expires
		}
		created, err := svc.CreateAction(ctx, a)
		if err != nil {
			return nil, nil, toolutil.UserError("action_create", err)
		}
		return nil, actionView(created), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "action_list",
		Description: "List the student's unexpired suggested actions, newest first. Defaults to pending actions.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ActionListInput) (*mcp.CallToolResult, *ActionListResult, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		actions, err := svc.ListActions(ctx, input.UserID, alumni.ActionStatus(input.Status), input.AlumniID, input.Limit)
		if err != nil {
			return nil, nil, toolutil.UserError("action_list", err)
		}
		views := make([]ActionView, 0, len(actions))
		for i := range actions {
			views = append(views, *actionView(&actions[i]))
		}
		return nil, &ActionListResult{Actions: views, Count: len(views)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "action_update",
		Description: "Mark a suggested action completed, dismissed or expired.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ActionUpdateInput) (*mcp.CallToolResult, *ActionView, error) {
		if err := toolutil.Require("user_id", input.UserID, "action_id", input.ActionID, "status", input.Status); err != nil {
			return nil, nil, err
		}
		a, err := svc.UpdateActionStatus(ctx, input.ActionID, input.UserID, alumni.ActionStatus(input.Status))
		if err != nil {
			return nil, nil, toolutil.UserError("action_update", err)
		}
		return nil, actionView(a), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "event_track",
		Description: "Record a student activity event for analytics. Events are also published to subscribers.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input EventTrackInput) (*mcp.CallToolResult, *alumni.Event, error) {
		e, err := svc.TrackEvent(ctx, input.UserID, input.EventType, input.Data)
		if err != nil {
			return nil, nil, toolutil.UserError("event_track", err)
		}
		return nil, e, nil
	})
}
