package alumni

import (
	"context"
	"time"
)

// MaxCandidatePool caps how many directory rows one generation run reads.
const MaxCandidatePool = 5000

// CandidateStore reads the directory and the user's relationship sets.
type CandidateStore interface {
	// ListPublicAlumni returns public alumni with a non-empty company in stable
	// retrieval order (created_at, id).
	ListPublicAlumni(ctx context.Context, limit int) ([]AlumniRecord, error)
	NetworkAlumniIDs(ctx context.Context, userID string) ([]string, error)
	PlanAlumniIDs(ctx context.Context, planID string) ([]string, error)
}

// PlanStore persists plans and their entries. CreatePlan and AppendEntries
// are each one transaction.
type PlanStore interface {
	CreatePlan(ctx context.Context, plan Plan, entries []PlanEntry) (*Plan, []PlanEntry, error)
	// AppendEntries rebases entries above the plan's current max sort_order
	// when they would collide, and skips alumni already in the plan.
	AppendEntries(ctx context.Context, planID string, entries []PlanEntry) ([]PlanEntry, error)
	// NextSortOrder is max(sort_order)+1, or 0 for a plan with no entries.
	NextSortOrder(ctx context.Context, planID string) (int, error)
	GetPlan(ctx context.Context, planID, userID string) (*Plan, error)
	GetActivePlan(ctx context.Context, userID string) (*Plan, error)
	ListPlans(ctx context.Context, userID string) ([]Plan, error)
	ListPlanEntries(ctx context.Context, planID string) ([]PlanEntry, error)
	DeletePlan(ctx context.Context, planID, userID string) error
	UpdateEntryStatus(ctx context.Context, entryID, userID string, status EntryStatus) error
}

// AlumniFilter narrows a directory search. Empty fields are ignored.
type AlumniFilter struct {
	Search   string // substring of name, company or role
	Industry string
	Sport    string
	Company  string
	Limit    int
}

// DirectoryStore covers alumni directory and student profile rows.
type DirectoryStore interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpsertProfile(ctx context.Context, p UserProfile) (*UserProfile, error)
	GetAlumni(ctx context.Context, id string) (*AlumniRecord, error)
	SearchAlumni(ctx context.Context, f AlumniFilter) ([]AlumniRecord, error)
	// UpsertAlumniByEmail inserts rec, or updates the row with the same email.
	UpsertAlumniByEmail(ctx context.Context, rec AlumniRecord) (*AlumniRecord, bool, error)
	// ListAlumniBatch pages over every alumnus in (created_at, id) order.
	ListAlumniBatch(ctx context.Context, offset, limit int) ([]AlumniRecord, error)
	SetAlumniIndustry(ctx context.Context, id string, industry *string) error
}

// NetworkStore covers saved connections and sent messages.
type NetworkStore interface {
	SaveConnection(ctx context.Context, c Connection) (*Connection, error)
	GetConnection(ctx context.Context, id, userID string) (*Connection, error)
	UpdateConnection(ctx context.Context, c Connection) (*Connection, error)
	ListConnections(ctx context.Context, userID string, status ConnectionStatus) ([]Connection, error)
	InsertMessage(ctx context.Context, m Message) (*Message, error)
	ListMessages(ctx context.Context, userID, alumniID string) ([]Message, error)
}

// ActionFilter selects suggested actions for one user.
type ActionFilter struct {
	Status   ActionStatus
	AlumniID string
	Limit    int
	Now      time.Time // rows with expires_at <= Now are excluded
}

// ActivityStore covers suggested actions and the event log.
type ActivityStore interface {
	InsertAction(ctx context.Context, a SuggestedAction) (*SuggestedAction, error)
	ListActions(ctx context.Context, userID string, f ActionFilter) ([]SuggestedAction, error)
	UpdateActionStatus(ctx context.Context, id, userID string, status ActionStatus, at time.Time) (*SuggestedAction, error)
	InsertEvent(ctx context.Context, e Event) (*Event, error)
}

// JobFilter narrows the jobs board. Empty fields are ignored; Offset and
// Limit page over the filtered, newest-first result.
type JobFilter struct {
	Industry  string
	Location  string // substring
	JobType   JobType
	Seniority Seniority
	Search    string // substring of title, company or description
	Offset    int
	Limit     int
}

// JobStore covers job postings and per-user interactions with them.
type JobStore interface {
	// UpsertJob inserts j, or updates the row with the same (source, external_id)
	// when ExternalID is set. The bool reports whether a row was created.
	UpsertJob(ctx context.Context, j Job) (*Job, bool, error)
	// GetJob returns an active job.
	GetJob(ctx context.Context, id string) (*Job, error)
	// ListJobs returns one page of active jobs and the filtered total.
	ListJobs(ctx context.Context, f JobFilter) ([]Job, int, error)
	// UpsertJobInteraction replaces the notes and timestamp of an existing
	// (user, job, type) row.
	UpsertJobInteraction(ctx context.Context, in JobInteraction) (*JobInteraction, error)
	// LatestJobInteraction returns ErrNotFound when the user never touched the job.
	LatestJobInteraction(ctx context.Context, userID, jobID string) (*JobInteraction, error)
	ListJobInteractions(ctx context.Context, userID string, t InteractionType) ([]JobInteraction, error)
	DeleteJobInteraction(ctx context.Context, userID, jobID string, t InteractionType) error
}

// Store is everything the service needs from storage.
type Store interface {
	CandidateStore
	PlanStore
	DirectoryStore
	NetworkStore
	ActivityStore
	JobStore
	Close() error
}
