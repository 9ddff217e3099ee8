package alumniserver

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_alumni/internal/engine"
	"github.com/anatolykoptev/go_alumni/internal/engine/alumni"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	return connectWith(t, engine.CompleterFunc(func(context.Context, string, int) (string, error) {
		return "Hi there!", nil
	}))
}

func connectWith(t *testing.T, llm engine.Completer) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	store, err := alumni.OpenSQLite(ctx, filepath.Join(t.TempDir(), "alumni.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := mcp.NewServer(&mcp.Implementation{Name: "go_alumni", Version: "test"}, nil)
	RegisterTools(server, alumni.NewService(store, llm))

	st, ct := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func text(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestRegisterTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Tools, toolCount)

	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"plan_generate", "plan_generate_more", "network_save", "message_draft", "career_plan", "career_next_steps", "job_list", "job_upsert", "job_interaction_record", "alumni_classify_industries"} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestProfileTools(t *testing.T) {
	cs := connect(t)

	res := call(t, cs, "profile_save", map[string]any{
		"user_id": "u1", "sport": "Rowing", "primary_industry": "Finance", "networking_intensity": "5",
	})
	require.False(t, res.IsError, text(res))

	res = call(t, cs, "profile_get", map[string]any{"user_id": "u1"})
	require.False(t, res.IsError, text(res))
	var p alumni.UserProfile
	require.NoError(t, json.Unmarshal([]byte(text(res)), &p))
	assert.Equal(t, "Finance", p.PrimaryIndustry)
	assert.Equal(t, alumni.Intensity5, p.NetworkingIntensity)
}

func TestPlanGenerate_NoProfile(t *testing.T) {
	cs := connect(t)
	res := call(t, cs, "plan_generate", map[string]any{"user_id": "ghost", "count": 3})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "complete your profile")
}

func TestMessageDraft(t *testing.T) {
	cs := connect(t)
	require.False(t, call(t, cs, "profile_save", map[string]any{"user_id": "u1", "sport": "Rowing"}).IsError)

	res := call(t, cs, "alumni_submit", map[string]any{"full_name": "Jane Doe", "sport": "Rowing", "graduation_year": 2008})
	require.False(t, res.IsError, text(res))
	var submitted AlumniSubmitResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &submitted))
	require.True(t, submitted.Created)

	res = call(t, cs, "message_draft", map[string]any{"user_id": "u1", "alumni_id": submitted.Alumni.ID})
	require.False(t, res.IsError, text(res))
	var draft MessageDraftResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &draft))
	assert.Equal(t, "Hi there!", draft.Message)
	assert.Equal(t, "neutral", draft.Tone)
}

func TestActionView(t *testing.T) {
	v := actionView(&alumni.SuggestedAction{ID: "a1", ActionType: alumni.ActionFollowUp, Payload: json.RawMessage(`{"plan_id":"p1"}`)})
	assert.Equal(t, "p1", v.Payload["plan_id"])

	v = actionView(&alumni.SuggestedAction{ID: "a2", Payload: json.RawMessage(`[1,2]`)})
	assert.Equal(t, []any{float64(1), float64(2)}, v.Payload["value"])
}

func TestCareerNextSteps(t *testing.T) {
	cs := connectWith(t, engine.CompleterFunc(func(_ context.Context, prompt string, _ int) (string, error) {
		if strings.Contains(prompt, "STILL TO DO") {
			return `{"nextSteps":[{"text":"Book an informational interview","priority":"high"},{"text":"Update LinkedIn"}]}`, nil
		}
		return "", errors.New("unexpected prompt")
	}))
	require.False(t, call(t, cs, "profile_save", map[string]any{"user_id": "u1", "sport": "Rowing"}).IsError)

	res := call(t, cs, "career_next_steps", map[string]any{
		"user_id":   "u1",
		"interest":  "Finance",
		"completed": []map[string]any{{"text": "Update LinkedIn", "priority": "high"}},
	})
	require.False(t, res.IsError, text(res))
	var out NextStepsOutput
	require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, alumni.NextStep{Text: "Book an informational interview", Priority: "high"}, out.Items[0])

	res = call(t, cs, "career_next_steps", map[string]any{"user_id": "u1"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "interest is required")
}

func TestJobTools(t *testing.T) {
	cs := connect(t)

	res := call(t, cs, "job_upsert", map[string]any{
		"title": "Investment Banking Summer Analyst", "company": "Evercore", "location": "New York, NY",
		"job_type": "onsite", "posted_at": "2025-09-01",
	})
	require.False(t, res.IsError, text(res))
	var up JobUpsertResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &up))
	require.True(t, up.Created)
	assert.Equal(t, "Finance", up.Job.Industry)
	assert.Equal(t, alumni.SeniorityInternship, up.Job.SeniorityLevel)
	assert.True(t, up.Job.IsActive)
	require.NotNil(t, up.Job.PostedAt)

	res = call(t, cs, "job_upsert", map[string]any{"title": "Analyst", "company": "Acme", "posted_at": "last week"})
	assert.True(t, res.IsError)

	res = call(t, cs, "job_list", map[string]any{"location": "new york"})
	require.False(t, res.IsError, text(res))
	var page alumni.JobPage
	require.NoError(t, json.Unmarshal([]byte(text(res)), &page))
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)

	res = call(t, cs, "job_list", map[string]any{"job_type": "office"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid job_type")

	res = call(t, cs, "job_interaction_record", map[string]any{"user_id": "u1", "job_id": up.Job.ID, "interaction_type": "saved"})
	require.False(t, res.IsError, text(res))

	res = call(t, cs, "job_get", map[string]any{"user_id": "u1", "job_id": up.Job.ID})
	require.False(t, res.IsError, text(res))
	var detail alumni.JobDetail
	require.NoError(t, json.Unmarshal([]byte(text(res)), &detail))
	require.NotNil(t, detail.UserInteraction)
	assert.Equal(t, alumni.InteractionSaved, detail.UserInteraction.Type)

	res = call(t, cs, "job_interaction_list", map[string]any{"user_id": "u1", "interaction_type": "saved"})
	require.False(t, res.IsError, text(res))
	var list JobInteractionListResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &list))
	assert.Equal(t, 1, list.Count)

	res = call(t, cs, "job_interaction_remove", map[string]any{"user_id": "u1", "job_id": up.Job.ID, "interaction_type": "saved"})
	require.False(t, res.IsError, text(res))

	res = call(t, cs, "job_get", map[string]any{"job_id": "missing"})
	assert.True(t, res.IsError)
}
