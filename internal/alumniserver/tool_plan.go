package alumniserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// PlanGenerateInput requests a new networking plan.
type PlanGenerateInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the student"`
	Count  int    `json:"count,omitempty" jsonschema:"Number of alumni to recommend (default 10, max 50)"`
}

// PlanMoreInput requests more recommendations for an existing plan.
type PlanMoreInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the student"`
	PlanID string `json:"plan_id" jsonschema:"Plan to extend"`
	Count  int    `json:"count,omitempty" jsonschema:"Number of alumni to add (default 5, max 50)"`
}

// PlanRefInput names one plan; an empty plan_id means the active plan.
type PlanRefInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the student"`
	PlanID string `json:"plan_id,omitempty" jsonschema:"Plan ID (default: the active plan)"`
}

// PlanEntryUpdateInput changes the status of one recommendation.
type PlanEntryUpdateInput struct {
	UserID  string `json:"user_id" jsonschema:"ID of the student"`
	EntryID string `json:"entry_id" jsonschema:"Plan entry ID"`
	Status  string `json:"status" jsonschema:"active, contacted or not_interested"`
}

// PlanEntriesResult is the set of entries added by one call.
type PlanEntriesResult struct {
	PlanID  string             `json:"plan_id"`
	Entries []alumni.PlanEntry `json:"entries"`
	Count   int                `json:"count"`
}

// PlanListResult lists a student's plans without entries.
type PlanListResult struct {
	Plans []alumni.Plan `json:"plans"`
	Count int           `json:"count"`
}

// OKResult acknowledges a mutation with no other output.
type OKResult struct {
	OK bool `json:"ok"`
}

func registerPlanTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_generate",
		Description: "Generate a personalized alumni networking plan for a student: scores the public directory against the student's profile, asks the model to pick and annotate the best matches (career summary, talking points, reason) and saves the result as the student's single active plan. Previous plans are kept but deactivated.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlanGenerateInput) (*mcp.CallToolResult, *alumni.PlanWithEntries, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		plan, err := svc.GeneratePlan(ctx, input.UserID, input.Count)
		if err != nil {
			return nil, nil, toolutil.UserError("plan_generate", err)
		}
		return nil, plan, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_generate_more",
		Description: "Append more recommendations to one of the student's plans. Alumni already in the plan or in the student's network are never suggested again; existing entries are not modified.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlanMoreInput) (*mcp.CallToolResult, *PlanEntriesResult, error) {
		if err := toolutil.Require("user_id", input.UserID, "plan_id", input.PlanID); err != nil {
			return nil, nil, err
		}
		entries, err := svc.GenerateMore(ctx, input.PlanID, input.UserID, input.Count)
		if err != nil {
			return nil, nil, toolutil.UserError("plan_generate_more", err)
		}
		return nil, &PlanEntriesResult{PlanID: input.PlanID, Entries: entries, Count: len(entries)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_get",
		Description: "Get a networking plan with its recommendations in display order. Without plan_id returns the student's active plan.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlanRefInput) (*mcp.CallToolResult, *alumni.PlanWithEntries, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		var (
			plan *alumni.PlanWithEntries
			err  error
		)
		if input.PlanID == "" {
			plan, err = svc.GetActivePlan(ctx, input.UserID)
		} else {
			plan, err = svc.GetPlan(ctx, input.PlanID, input.UserID)
		}
		if err != nil {
			return nil, nil, toolutil.UserError("plan_get", err)
		}
		return nil, plan, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_list",
		Description: "List all of a student's networking plans, newest first, without their entries.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UserInput) (*mcp.CallToolResult, *PlanListResult, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		plans, err := svc.ListPlans(ctx, input.UserID)
		if err != nil {
			return nil, nil, toolutil.UserError("plan_list", err)
		}
		return nil, &PlanListResult{Plans: plans, Count: len(plans)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_delete",
		Description: "Delete one of the student's plans and all its recommendations.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlanRefInput) (*mcp.CallToolResult, *OKResult, error) {
		if err := toolutil.Require("user_id", input.UserID, "plan_id", input.PlanID); err != nil {
			return nil, nil, err
		}
		if err := svc.DeletePlan(ctx, input.PlanID, input.UserID); err != nil {
			return nil, nil, toolutil.UserError("plan_delete", err)
		}
		slog.Info("plan deleted", slog.String("user_id", input.UserID), slog.String("plan_id", input.PlanID))
		return nil, &OKResult{OK: true}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_entry_update",
		Description: "Mark a recommendation as contacted or not_interested, or reset it to active.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlanEntryUpdateInput) (*mcp.CallToolResult, *OKResult, error) {
		if err := toolutil.Require("user_id", input.UserID, "entry_id", input.EntryID); err != nil {
			return nil, nil, err
		}
		if err := svc.UpdateEntryStatus(ctx, input.EntryID, input.UserID, alumni.EntryStatus(input.Status)); err != nil {
			return nil, nil, toolutil.UserError("plan_entry_update", err)
		}
		return nil, &OKResult{OK: true}, nil
	})
}

func ptr[T any](v T) *T { return &v }
