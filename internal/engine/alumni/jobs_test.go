package alumni

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuessIndustry(t *testing.T) {
	tests := []struct {
		title, company string
		want           string
	}{
		{"Software Engineer", "Acme", "Technology"},
		{"Investment Banking Analyst", "Evercore", "Finance"},
		{"Associate", "Cravath Law", "Law"},
		{"Nurse", "City Hospital", "Healthcare"},
		{"AI Researcher", "Lab", "Technology"},
		{"Chair Maker", "Woodworks", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessIndustry(tt.title, tt.company))
		})
	}
}

func TestGuessSeniority(t *testing.T) {
	tests := []struct {
		title string
		want  Seniority
	}{
		{"Investment Banking Summer Analyst", SeniorityInternship},
		{"Software Engineering Intern", SeniorityInternship},
		{"Senior Data Analyst", SenioritySenior},
		{"VP of Sales", SeniorityExecutive},
		{"Junior Developer", SeniorityEntry},
		{"Data Analyst", SeniorityEntry},
		{"Product Manager", SeniorityMid},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessSeniority(tt.title))
		})
	}
}

func TestUpsertJob(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, &fakeLLM{})
	ctx := context.Background()

	job, created, err := svc.UpsertJob(ctx, Job{Title: " Investment Banking Summer Analyst ", Company: "Evercore", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Investment Banking Summer Analyst", job.Title)
	assert.Equal(t, "Finance", job.Industry)
	assert.Equal(t, SeniorityInternship, job.SeniorityLevel)
	assert.Equal(t, "manual", job.Source)

	job, _, err = svc.UpsertJob(ctx, Job{Title: "Counsel", Company: "Acme", Industry: "law", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Law", job.Industry)

	var verr *ValidationError
	for _, bad := range []Job{
		{Company: "Acme"},
		{Title: "Analyst", Company: "Acme", JobType: "office"},
		{Title: "Analyst", Company: "Acme", SeniorityLevel: "guru"},
		{Title: "Analyst", Company: "Acme", Industry: "Space"},
	} {
		_, _, err := svc.UpsertJob(ctx, bad)
		assert.ErrorAs(t, err, &verr, "%+v", bad)
	}
}

func TestListJobs_Paging(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, &fakeLLM{})
	ctx := context.Background()
	for _, title := range []string{"Analyst", "Associate", "Engineer"} {
		seedJob(t, store, Job{Title: title, Company: "Acme", Source: "manual", IsActive: true})
	}

	page, err := svc.ListJobs(ctx, JobQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Jobs, 3)
	assert.False(t, page.HasMore)

	page, err = svc.ListJobs(ctx, JobQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Jobs, 2)
	assert.True(t, page.HasMore)

	page, err = svc.ListJobs(ctx, JobQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Jobs, 1)
	assert.False(t, page.HasMore)

	page, err = svc.ListJobs(ctx, JobQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)

	var verr *ValidationError
	_, err = svc.ListJobs(ctx, JobQuery{JobType: "office"})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.ListJobs(ctx, JobQuery{Seniority: "guru"})
	assert.ErrorAs(t, err, &verr)
}

func TestJobInteractions(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, &fakeLLM{})
	ctx := context.Background()
	job := seedJob(t, store, Job{Title: "Analyst", Company: "Evercore", Source: "manual", IsActive: true})
	closed := seedJob(t, store, Job{Title: "Closed", Company: "Evercore", Source: "manual", IsActive: false})

	detail, err := svc.GetJob(ctx, "u1", job.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.UserInteraction)

	var verr *ValidationError
	_, err = svc.RecordJobInteraction(ctx, "u1", job.ID, "liked", "")
	assert.ErrorAs(t, err, &verr)
	_, err = svc.RecordJobInteraction(ctx, "u1", closed.ID, InteractionSaved, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RecordJobInteraction(ctx, "u1", "missing", InteractionSaved, "")
	assert.ErrorIs(t, err, ErrNotFound)

	in, err := svc.RecordJobInteraction(ctx, "u1", job.ID, InteractionSaved, "  ask Coach Lee  ")
	require.NoError(t, err)
	assert.Equal(t, "ask Coach Lee", in.Notes)

	detail, err = svc.GetJob(ctx, "u1", job.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.UserInteraction)
	assert.Equal(t, InteractionSaved, detail.UserInteraction.Type)

	anon, err := svc.GetJob(ctx, "", job.ID)
	require.NoError(t, err)
	assert.Nil(t, anon.UserInteraction)

	list, err := svc.ListJobInteractions(ctx, "u1", InteractionSaved)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Evercore", list[0].Job.Company)
	_, err = svc.ListJobInteractions(ctx, "u1", "liked")
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.RemoveJobInteraction(ctx, "u1", job.ID, InteractionSaved))
	assert.ErrorIs(t, svc.RemoveJobInteraction(ctx, "u1", job.ID, InteractionSaved), ErrNotFound)
	list, err = svc.ListJobInteractions(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
