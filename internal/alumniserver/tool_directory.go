package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// AlumniSearchInput filters the public directory.
type AlumniSearchInput struct {
	Search   string `json:"search,omitempty" jsonschema:"Substring of name, company or role"`
	Industry string `json:"industry,omitempty" jsonschema:"Exact industry, e.g. Finance"`
	Sport    string `json:"sport,omitempty" jsonschema:"Sport (case-insensitive)"`
	Company  string `json:"company,omitempty" jsonschema:"Company substring"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 50, max 100)"`
}

// AlumniListResult is a page of directory entries.
type AlumniListResult struct {
	Alumni []alumni.AlumniRecord `json:"alumni"`
	Count  int                   `json:"count"`
}

// AlumniGetInput names one directory entry.
type AlumniGetInput struct {
	AlumniID string `json:"alumni_id" jsonschema:"Alumni ID"`
}

// AlumniSubmitResult reports the stored entry and whether it is new.
type AlumniSubmitResult struct {
	Alumni  *alumni.AlumniRecord `json:"alumni"`
	Created bool                 `json:"created"`
}

func registerDirectoryTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "alumni_search",
		Description: "Search the public alumni directory by free text (name, company, role), industry, sport or company. Results are sorted by name.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AlumniSearchInput) (*mcp.CallToolResult, *AlumniListResult, error) {
		found, err := svc.SearchAlumni(ctx, alumni.AlumniFilter{
			Search: input.Search, Industry: input.Industry, Sport: input.Sport, Company: input.Company, Limit: input.Limit,
		})
		if err != nil {
			return nil, nil, toolutil.UserError("alumni_search", err)
		}
		return nil, &AlumniListResult{Alumni: found, Count: len(found)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "alumni_get",
		Description: "Get one public alumni directory entry by ID.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AlumniGetInput) (*mcp.CallToolResult, *alumni.AlumniRecord, error) {
		if err := toolutil.Require("alumni_id", input.AlumniID); err != nil {
			return nil, nil, err
		}
		a, err := svc.GetAlumni(ctx, input.AlumniID)
		if err != nil {
			return nil, nil, toolutil.UserError("alumni_get", err)
		}
		return nil, a, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "alumni_submit",
		Description: "Add yourself (or update your entry) in the alumni directory. Requires full_name, sport and graduation_year. Entries with an email already on file are updated instead of duplicated.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input alumni.AlumniSubmission) (*mcp.CallToolResult, *AlumniSubmitResult, error) {
		rec, created, err := svc.SubmitAlumnus(ctx, input)
		if err != nil {
			return nil, nil, toolutil.UserError("alumni_submit", err)
		}
		return nil, &AlumniSubmitResult{Alumni: rec, Created: created}, nil
	})
}
