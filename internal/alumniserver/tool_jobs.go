package alumniserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// JobListInput filters the jobs board.
type JobListInput struct {
	Industry       string `json:"industry,omitempty" jsonschema:"Exact industry, e.g. Finance"`
	Location       string `json:"location,omitempty" jsonschema:"Location substring, case-insensitive"`
	JobType        string `json:"job_type,omitempty" jsonschema:"remote, onsite or hybrid"`
	SeniorityLevel string `json:"seniority_level,omitempty" jsonschema:"internship, entry, mid, senior or executive"`
	Search         string `json:"search,omitempty" jsonschema:"Substring of title, company or description"`
	Page           int    `json:"page,omitempty" jsonschema:"1-based page (default 1)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Jobs per page (default 20, max 100)"`
}

// JobGetInput reads one posting.
type JobGetInput struct {
	JobID  string `json:"job_id" jsonschema:"Job ID from job_list"`
	UserID string `json:"user_id,omitempty" jsonschema:"Student ID; includes their latest interaction"`
}

// JobInteractionInput records or removes what a student did with a posting.
type JobInteractionInput struct {
	UserID          string `json:"user_id" jsonschema:"ID of the student"`
	JobID           string `json:"job_id" jsonschema:"Job ID from job_list"`
	InteractionType string `json:"interaction_type" jsonschema:"saved, applied, dismissed or viewed"`
	Notes           string `json:"notes,omitempty" jsonschema:"Private notes"`
}

// JobInteractionListInput lists a student's interactions.
type JobInteractionListInput struct {
	UserID          string `json:"user_id" jsonschema:"ID of the student"`
	InteractionType string `json:"interaction_type,omitempty" jsonschema:"Filter: saved, applied, dismissed or viewed"`
}

// JobInteractionListResult is a student's job activity.
type JobInteractionListResult struct {
	Interactions []alumni.JobInteraction `json:"interactions"`
	Count        int                     `json:"count"`
}

// JobUpsertInput adds or refreshes a posting on the board.
type JobUpsertInput struct {
	Title          string `json:"title" jsonschema:"Job title"`
	Company        string `json:"company" jsonschema:"Hiring company"`
	Location       string `json:"location,omitempty" jsonschema:"City, region or Remote"`
	SalaryRange    string `json:"salary_range,omitempty" jsonschema:"Free-form salary range"`
	JobType        string `json:"job_type,omitempty" jsonschema:"remote, onsite or hybrid"`
	Description    string `json:"description,omitempty" jsonschema:"Posting body"`
	ExternalURL    string `json:"external_url,omitempty" jsonschema:"Apply link"`
	ExternalID     string `json:"external_id,omitempty" jsonschema:"ID at the source; reposting the same source and ID updates the job"`
	Source         string `json:"source,omitempty" jsonschema:"Where the posting came from (default manual)"`
	Industry       string `json:"industry,omitempty" jsonschema:"Industry; guessed from title and company when blank"`
	SeniorityLevel string `json:"seniority_level,omitempty" jsonschema:"internship, entry, mid, senior or executive; guessed from title when blank"`
	PostedAt       string `json:"posted_at,omitempty" jsonschema:"Posting date, RFC 3339 or YYYY-MM-DD"`
	Active         *bool  `json:"active,omitempty" jsonschema:"Whether the posting is listed (default true)"`
}

// JobUpsertResult reports the stored posting and whether it is new.
type JobUpsertResult struct {
	Job     *alumni.Job `json:"job"`
	Created bool        `json:"created"`
}

func parsePostedAt(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("posted_at %q is not RFC 3339 or YYYY-MM-DD", s)
}

func registerJobTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_list",
		Description: "Browse the jobs board: active postings newest first, filtered by industry, location, job type, seniority or free-text search, paginated.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobListInput) (*mcp.CallToolResult, *alumni.JobPage, error) {
		page, err := svc.ListJobs(ctx, alumni.JobQuery{
			Industry:  input.Industry,
			Location:  input.Location,
			JobType:   alumni.JobType(input.JobType),
			Seniority: alumni.Seniority(input.SeniorityLevel),
			Search:    input.Search,
			Page:      input.Page,
			Limit:     input.Limit,
		})
		if err != nil {
			return nil, nil, toolutil.UserError("job_list", err)
		}
		return nil, page, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_get",
		Description: "Get one active posting, with the student's latest interaction when user_id is given.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobGetInput) (*mcp.CallToolResult, *alumni.JobDetail, error) {
		if err := toolutil.Require("job_id", input.JobID); err != nil {
			return nil, nil, err
		}
		detail, err := svc.GetJob(ctx, input.UserID, input.JobID)
		if err != nil {
			return nil, nil, toolutil.UserError("job_get", err)
		}
		return nil, detail, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_interaction_record",
		Description: "Save, apply to, dismiss or mark a posting viewed. Repeating the same interaction replaces its notes.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobInteractionInput) (*mcp.CallToolResult, *alumni.JobInteraction, error) {
		if err := toolutil.Require("user_id", input.UserID, "job_id", input.JobID, "interaction_type", input.InteractionType); err != nil {
			return nil, nil, err
		}
		in, err := svc.RecordJobInteraction(ctx, input.UserID, input.JobID, alumni.InteractionType(input.InteractionType), input.Notes)
		if err != nil {
			return nil, nil, toolutil.UserError("job_interaction_record", err)
		}
		return nil, in, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_interaction_list",
		Description: "List the student's job interactions with their postings, newest first, optionally of one type (e.g. saved jobs).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobInteractionListInput) (*mcp.CallToolResult, *JobInteractionListResult, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		list, err := svc.ListJobInteractions(ctx, input.UserID, alumni.InteractionType(input.InteractionType))
		if err != nil {
			return nil, nil, toolutil.UserError("job_interaction_list", err)
		}
		return nil, &JobInteractionListResult{Interactions: list, Count: len(list)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_interaction_remove",
		Description: "Undo one job interaction, e.g. unsave a posting.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobInteractionInput) (*mcp.CallToolResult, *OKResult, error) {
		if err := toolutil.Require("user_id", input.UserID, "job_id", input.JobID, "interaction_type", input.InteractionType); err != nil {
			return nil, nil, err
		}
		if err := svc.RemoveJobInteraction(ctx, input.UserID, input.JobID, alumni.InteractionType(input.InteractionType)); err != nil {
			return nil, nil, toolutil.UserError("job_interaction_remove", err)
		}
		return nil, &OKResult{OK: true}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_upsert",
		Description: "Add a posting to the jobs board, or update the one with the same source and external_id. Blank industry and seniority are guessed from the title and company.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobUpsertInput) (*mcp.CallToolResult, *JobUpsertResult, error) {
		if err := toolutil.Require("title", input.Title, "company", input.Company); err != nil {
			return nil, nil, err
		}
		posted, err := parsePostedAt(input.PostedAt)
		if err != nil {
			return nil, nil, err
		}
		active := input.Active == nil || *input.Active
		job, created, err := svc.UpsertJob(ctx, alumni.Job{
			Title:          input.Title,
			Company:        input.Company,
			Location:       input.Location,
			SalaryRange:    input.SalaryRange,
			JobType:        alumni.JobType(input.JobType),
			Description:    input.Description,
			ExternalURL:    input.ExternalURL,
			ExternalID:     input.ExternalID,
			Source:         input.Source,
			Industry:       input.Industry,
			SeniorityLevel: alumni.Seniority(input.SeniorityLevel),
			PostedAt:       posted,
			IsActive:       active,
		})
		if err != nil {
			return nil, nil, toolutil.UserError("job_upsert", err)
		}
		return nil, &JobUpsertResult{Job: job, Created: created}, nil
	})
}
