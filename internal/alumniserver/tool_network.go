package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// NetworkSaveInput adds an alumnus to the student's network.
type NetworkSaveInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	AlumniID string `json:"alumni_id" jsonschema:"Alumni to save"`
	Notes    string `json:"notes,omitempty" jsonschema:"Private notes"`
}

// NetworkListInput lists saved connections.
type NetworkListInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the student"`
	Status string `json:"status,omitempty" jsonschema:"Filter: interested, awaiting_reply, response_needed, meeting_scheduled or met"`
}

// NetworkUpdateInput changes a saved connection. Omitted fields are left unchanged.
type NetworkUpdateInput struct {
	UserID       string  `json:"user_id" jsonschema:"ID of the student"`
	ConnectionID string  `json:"connection_id" jsonschema:"Connection ID from network_list"`
	Status       *string `json:"status,omitempty" jsonschema:"interested, awaiting_reply, response_needed, meeting_scheduled or met"`
	Notes        *string `json:"notes,omitempty" jsonschema:"Replacement notes"`
	Contacted    *bool   `json:"contacted,omitempty" jsonschema:"Whether the student has reached out"`
}

// NetworkListResult is the student's network.
type NetworkListResult struct {
	Connections []alumni.Connection `json:"connections"`
	Count       int                 `json:"count"`
}

func registerNetworkTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "network_save",
		Description: "Save an alumnus to the student's network. Saved alumni are excluded from future recommendations. Saving twice returns the existing connection.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NetworkSaveInput) (*mcp.CallToolResult, *alumni.Connection, error) {
		if err := toolutil.Require("user_id", input.UserID, "alumni_id", input.AlumniID); err != nil {
			return nil, nil, err
		}
		c, err := svc.SaveConnection(ctx, input.UserID, input.AlumniID, input.Notes)
		if err != nil {
			return nil, nil, toolutil.UserError("network_save", err)
		}
		return nil, c, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "network_list",
		Description: "List the student's saved alumni connections, newest first, optionally filtered by outreach status.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NetworkListInput) (*mcp.CallToolResult, *NetworkListResult, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		conns, err := svc.ListConnections(ctx, input.UserID, alumni.ConnectionStatus(input.Status))
		if err != nil {
			return nil, nil, toolutil.UserError("network_list", err)
		}
		return nil, &NetworkListResult{Connections: conns, Count: len(conns)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "network_update",
		Description: "Update a saved connection's outreach status, notes or contacted flag.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NetworkUpdateInput) (*mcp.CallToolResult, *alumni.Connection, error) {
		if err := toolutil.Require("user_id", input.UserID, "connection_id", input.ConnectionID); err != nil {
			return nil, nil, err
		}
		u := alumni.ConnectionUpdate{ID: input.ConnectionID, UserID: input.UserID, Notes: input.Notes, Contacted: input.Contacted}
		if input.Status != nil {
			status := alumni.ConnectionStatus(*input.Status)
			u.Status = &status
		}
		c, err := svc.UpdateConnection(ctx, u)
		if err != nil {
			return nil, nil, toolutil.UserError("network_update", err)
		}
		return nil, c, nil
	})
}
