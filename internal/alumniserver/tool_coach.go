package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// CareerPlanInput asks the career coach about one interest.
type CareerPlanInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	Interest string `json:"interest" jsonschema:"Career interest, e.g. Investment Banking or Sports Medicine"`
}

// NextStepsInput reports plan progress and asks for follow-up items.
type NextStepsInput struct {
	UserID    string               `json:"user_id" jsonschema:"ID of the student"`
	Interest  string               `json:"interest" jsonschema:"Career interest the plan is for"`
	Completed []alumni.CoachAction `json:"completed,omitempty" jsonschema:"Plan items the student has finished"`
	Remaining []alumni.CoachAction `json:"remaining,omitempty" jsonschema:"Plan items still open"`
}

// NextStepsOutput lists suggested follow-up items.
type NextStepsOutput struct {
	Items []alumni.NextStep `json:"nextSteps"`
	Count int               `json:"count"`
}

func registerCoachTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "career_plan",
		Description: "Career coach: build a short-term (1-2 weeks) and long-term (1-3 months) action plan for a career interest, tailored to the student's profile and sport, with up to 6 relevant alumni to contact and one key insight.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CareerPlanInput) (*mcp.CallToolResult, *alumni.CareerPlan, error) {
		if err := toolutil.Require("user_id", input.UserID, "interest", input.Interest); err != nil {
			return nil, nil, err
		}
		plan, err := svc.CareerPlan(ctx, input.UserID, input.Interest)
		if err != nil {
			return nil, nil, toolutil.UserError("career_plan", err)
		}
		return nil, plan, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "career_next_steps",
		Description: "Career coach: given the items a student completed and still has open for a career interest, suggest 4-6 new next steps that build on the progress without repeating listed items.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NextStepsInput) (*mcp.CallToolResult, *NextStepsOutput, error) {
		if err := toolutil.Require("user_id", input.UserID, "interest", input.Interest); err != nil {
			return nil, nil, err
		}
		steps, err := svc.CoachNextSteps(ctx, input.UserID, input.Interest, input.Completed, input.Remaining)
		if err != nil {
			return nil, nil, toolutil.UserError("career_next_steps", err)
		}
		return nil, &NextStepsOutput{Items: steps, Count: len(steps)}, nil
	})
}
