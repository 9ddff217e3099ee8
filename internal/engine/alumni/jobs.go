package alumni

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultJobPageSize = 20
	maxJobPageSize     = 100
	manualJobSource    = "manual"
)

// JobQuery is a jobs board request. Page is 1-based.
type JobQuery struct {
	Industry  string
	Location  string
	JobType   JobType
	Seniority Seniority
	Search    string
	Page      int
	Limit     int
}

// JobPage is one page of the jobs board.
type JobPage struct {
	Jobs    []Job `json:"jobs"`
	Total   int   `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

// JobDetail is a job with the student's latest interaction, if any.
type JobDetail struct {
	Job             *Job            `json:"job"`
	UserInteraction *JobInteraction `json:"userInteraction,omitempty"`
}

func validJobType(t JobType) bool {
	switch t {
	case JobRemote, JobOnsite, JobHybrid:
		return true
	}
	return false
}

func validSeniority(s Seniority) bool {
	switch s {
	case SeniorityInternship, SeniorityEntry, SeniorityMid, SenioritySenior, SeniorityExecutive:
		return true
	}
	return false
}

func validInteraction(t InteractionType) bool {
	switch t {
	case InteractionSaved, InteractionApplied, InteractionDismissed, InteractionViewed:
		return true
	}
	return false
}

// ListJobs returns one page of active postings, newest first.
func (s *Service) ListJobs(ctx context.Context, q JobQuery) (*JobPage, error) {
	if q.JobType != "" && !validJobType(q.JobType) {
		return nil, invalidf("invalid job_type %q (valid: remote, onsite, hybrid)", q.JobType)
	}
	if q.Seniority != "" && !validSeniority(q.Seniority) {
		return nil, invalidf("invalid seniority_level %q (valid: internship, entry, mid, senior, executive)", q.Seniority)
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultJobPageSize
	}
	if q.Limit > maxJobPageSize {
		q.Limit = maxJobPageSize
	}

	jobs, total, err := s.store.ListJobs(ctx, JobFilter{
		Industry:  q.Industry,
		Location:  q.Location,
		JobType:   q.JobType,
		Seniority: q.Seniority,
		Search:    q.Search,
		Offset:    (q.Page - 1) * q.Limit,
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return &JobPage{
		Jobs:    jobs,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: q.Page*q.Limit < total,
	}, nil
}

// GetJob returns an active posting and, when userID is set, the student's
// latest interaction with it.
func (s *Service) GetJob(ctx context.Context, userID, jobID string) (*JobDetail, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	detail := &JobDetail{Job: job}
	if userID == "" {
		return detail, nil
	}
	in, err := s.store.LatestJobInteraction(ctx, userID, jobID)
	switch {
	case err == nil:
		detail.UserInteraction = in
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("load job interaction: %w", err)
	}
	return detail, nil
}

// RecordJobInteraction saves, applies to, dismisses or views a posting.
// Repeating an interaction replaces its notes.
func (s *Service) RecordJobInteraction(ctx context.Context, userID, jobID string, t InteractionType, notes string) (*JobInteraction, error) {
	if !validInteraction(t) {
		return nil, invalidf("invalid interaction_type %q (valid: saved, applied, dismissed, viewed)", t)
	}
	if _, err := s.store.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	in, err := s.store.UpsertJobInteraction(ctx, JobInteraction{UserID: userID, JobID: jobID, Type: t, Notes: strings.TrimSpace(notes)})
	if err != nil {
		return nil, fmt.Errorf("record job interaction: %w", err)
	}
	s.trackBestEffort(ctx, userID, "job_"+string(t), map[string]any{"job_id": jobID})
	return in, nil
}

// ListJobInteractions returns the student's interactions, optionally of one type.
func (s *Service) ListJobInteractions(ctx context.Context, userID string, t InteractionType) ([]JobInteraction, error) {
	if t != "" && !validInteraction(t) {
		return nil, invalidf("invalid interaction_type %q (valid: saved, applied, dismissed, viewed)", t)
	}
	return s.store.ListJobInteractions(ctx, userID, t)
}

// RemoveJobInteraction undoes one interaction, e.g. unsaving a job.
func (s *Service) RemoveJobInteraction(ctx context.Context, userID, jobID string, t InteractionType) error {
	if !validInteraction(t) {
		return invalidf("invalid interaction_type %q (valid: saved, applied, dismissed, viewed)", t)
	}
	return s.store.DeleteJobInteraction(ctx, userID, jobID, t)
}

// UpsertJob adds or refreshes a posting. A blank industry or seniority is
// guessed from the title and company.
func (s *Service) UpsertJob(ctx context.Context, j Job) (*Job, bool, error) {
	j.Title, j.Company = strings.TrimSpace(j.Title), strings.TrimSpace(j.Company)
	if j.Title == "" || j.Company == "" {
		return nil, false, invalidf("title and company are required")
	}
	if j.JobType != "" && !validJobType(j.JobType) {
		return nil, false, invalidf("invalid job_type %q (valid: remote, onsite, hybrid)", j.JobType)
	}
	if j.SeniorityLevel == "" {
		j.SeniorityLevel = GuessSeniority(j.Title)
	} else if !validSeniority(j.SeniorityLevel) {
		return nil, false, invalidf("invalid seniority_level %q (valid: internship, entry, mid, senior, executive)", j.SeniorityLevel)
	}
	if v := strings.TrimSpace(j.Industry); v != "" {
		if j.Industry = CanonicalIndustry(v); j.Industry == "" {
			return nil, false, invalidf("invalid industry %q (valid: %s)", v, strings.Join(ValidIndustries, ", "))
		}
	} else {
		j.Industry = GuessIndustry(j.Title, j.Company)
	}
	if j.Source = strings.TrimSpace(j.Source); j.Source == "" {
		j.Source = manualJobSource
	}
	j.ExternalID = strings.TrimSpace(j.ExternalID)

	job, created, err := s.store.UpsertJob(ctx, j)
	if err != nil {
		return nil, false, fmt.Errorf("upsert job: %w", err)
	}
	return job, created, nil
}

type keywordRule[T any] struct {
	value    T
	keywords []string
}

var industryRules = []keywordRule[string]{
	{"Finance", []string{"bank", "finance", "investment", "capital", "equity", "trading"}},
	{"Technology", []string{"software", "engineer", "developer", "tech", "data", "cloud", " ai "}},
	{"Consulting", []string{"consult", "advisory", "strategy"}},
	{"Healthcare", []string{"health", "medical", "pharma", "biotech", "hospital"}},
	{"Law", []string{"law", "legal", "attorney", "counsel"}},
	{"Media", []string{"media", "market", "advertis", "brand", "communications"}},
}

// Internship is checked first so "Summer Analyst Intern" is not entry level.
var seniorityRules = []keywordRule[Seniority]{
	{SeniorityInternship, []string{"intern", "co-op", "trainee", "summer analyst"}},
	{SenioritySenior, []string{"senior", "sr.", "lead", "principal", "staff"}},
	{SeniorityExecutive, []string{"director", "vp", "chief", "head of", "president"}},
	{SeniorityEntry, []string{"junior", "jr.", "entry", "associate", "analyst", "coordinator", "assistant", "new grad"}},
}

func matchRule[T any](rules []keywordRule[T], text string) (T, bool) {
	text = " " + strings.ToLower(text) + " "
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value, true
			}
		}
	}
	var zero T
	return zero, false
}

// GuessIndustry maps a posting to an industry by keyword, or "".
func GuessIndustry(title, company string) string {
	v, _ := matchRule(industryRules, title+" "+company)
	return v
}

// GuessSeniority maps a title to a seniority level, defaulting to mid.
func GuessSeniority(title string) Seniority {
	if v, ok := matchRule(seniorityRules, title); ok {
		return v
	}
	return SeniorityMid
}
