package alumniserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
	"github.com/anatolykoptev/go_alumni/internal/toolutil"
)

// MessageDraftInput asks for an outreach draft.
type MessageDraftInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	AlumniID string `json:"alumni_id" jsonschema:"Recipient alumni ID"`
	Tone     string `json:"tone,omitempty" jsonschema:"friendly, neutral (default) or formal"`
}

// MessageDraftResult is a drafted message; nothing is sent.
type MessageDraftResult struct {
	AlumniID string `json:"alumni_id"`
	Tone     string `json:"tone"`
	Message  string `json:"message"`
}

// MessageRecordInput logs a message the student sent.
type MessageRecordInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	AlumniID string `json:"alumni_id" jsonschema:"Recipient alumni ID"`
	Content  string `json:"message_content" jsonschema:"Message text as sent"`
	SentVia  string `json:"sent_via" jsonschema:"linkedin, email or copied"`
}

// MessageListInput lists sent messages.
type MessageListInput struct {
	UserID   string `json:"user_id" jsonschema:"ID of the student"`
	AlumniID string `json:"alumni_id,omitempty" jsonschema:"Only messages to this alumnus"`
}

// MessageListResult is a list of sent messages.
type MessageListResult struct {
	Messages []alumni.Message `json:"messages"`
	Count    int              `json:"count"`
}

func registerMessageTools(server *mcp.Server, svc *alumni.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "message_draft",
		Description: "Draft a 150-200 word outreach message from the student to an alumnus, referencing the shared sport and the alumnus' company and role. Tone: friendly, neutral or formal. The draft is returned, not sent.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MessageDraftInput) (*mcp.CallToolResult, *MessageDraftResult, error) {
		if err := toolutil.Require("user_id", input.UserID, "alumni_id", input.AlumniID); err != nil {
			return nil, nil, err
		}
		tone := alumni.Tone(input.Tone)
		if tone == "" {
			tone = alumni.ToneNeutral
		}
		text, err := svc.DraftMessage(ctx, input.UserID, input.AlumniID, tone)
		if err != nil {
			return nil, nil, toolutil.UserError("message_draft", err)
		}
		return nil, &MessageDraftResult{AlumniID: input.AlumniID, Tone: string(tone), Message: text}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "message_record",
		Description: "Record an outreach message the student sent to an alumnus (via linkedin, email or copied to clipboard).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MessageRecordInput) (*mcp.CallToolResult, *alumni.Message, error) {
		if err := toolutil.Require("user_id", input.UserID, "alumni_id", input.AlumniID); err != nil {
			return nil, nil, err
		}
		m, err := svc.RecordMessage(ctx, alumni.Message{
			UserID: input.UserID, AlumniID: input.AlumniID, Content: input.Content, SentVia: alumni.SentVia(input.SentVia),
		})
		if err != nil {
			return nil, nil, toolutil.UserError("message_record", err)
		}
		return nil, m, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "message_list",
		Description: "List messages the student has sent, newest first, optionally to one alumnus.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MessageListInput) (*mcp.CallToolResult, *MessageListResult, error) {
		if err := toolutil.Require("user_id", input.UserID); err != nil {
			return nil, nil, err
		}
		msgs, err := svc.ListMessages(ctx, input.UserID, input.AlumniID)
		if err != nil {
			return nil, nil, toolutil.UserError("message_list", err)
		}
		return nil, &MessageListResult{Messages: msgs, Count: len(msgs)}, nil
	})
}
