package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// ClassifyInput takes no arguments.
type ClassifyInput struct{}

func registerClassifyTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "alumni_classify_industries",
		Description: "Admin: reclassify every alumnus' industry from company and role into the fixed industry list, in batches of 50. Failed batches are left unchanged.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ClassifyInput) (*mcp.CallToolResult, *alumni.ClassifyReport, error) {
		report, err := svc.ClassifyIndustries(ctx)
		if err != nil {
			return nil, nil, toolutil.UserError("alumni_classify_industries", err)
		}
		return nil, report, nil
	})
}
