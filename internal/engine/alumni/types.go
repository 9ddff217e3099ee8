package alumni

import (
	"encoding/json"
	"time"
)

// Stage is where the student is in their job search.
type Stage string

const (
	StageExploring            Stage = "exploring"
	StageRecruiting           Stage = "recruiting"
	StageInterviewing         Stage = "interviewing"
	StageReferrals            Stage = "referrals"
	StageRelationshipBuilding Stage = "relationship_building"
)

// Intensity is the weekly networking target chosen at onboarding.
type Intensity string

const (
	Intensity5       Intensity = "5"
	Intensity10      Intensity = "10"
	Intensity20      Intensity = "20"
	IntensityOwnPace Intensity = "own_pace"
)

// GoalCount maps an intensity to the plan's connection goal.
// Unknown and own_pace both yield 10.
func (i Intensity) GoalCount() int {
	switch i {
	case Intensity5:
		return 5
	case Intensity20:
		return 20
	default:
		return 10
	}
}

// GeographyPreference controls how strongly location matters.
type GeographyPreference string

const (
	GeoCity         GeographyPreference = "city"
	GeoRegion       GeographyPreference = "region"
	GeoDoesntMatter GeographyPreference = "doesnt_matter"
)

// ExistingNetwork describes prior networking experience.
type ExistingNetwork string

const (
	NetworkNone             ExistingNetwork = "none"
	NetworkFewConversations ExistingNetwork = "few_conversations"
	NetworkOngoing          ExistingNetwork = "ongoing"
)

// UserProfile is a student's preference record.
type UserProfile struct {
	UserID              string              `json:"user_id"`
	FullName            string              `json:"full_name,omitempty"`
	Sport               string              `json:"sport,omitempty"`
	GraduationYear      int                 `json:"graduation_year,omitempty"`
	Major               string              `json:"major,omitempty"`
	Company             string              `json:"company,omitempty"`
	Role                string              `json:"role,omitempty"`
	PrimaryIndustry     string              `json:"primary_industry,omitempty"`
	SecondaryIndustries []string            `json:"secondary_industries"`
	TargetRoles         []string            `json:"target_roles"`
	PreferredLocations  []string            `json:"preferred_locations"`
	GeographyPreference GeographyPreference `json:"geography_preference,omitempty"`
	Stage               Stage               `json:"current_stage,omitempty"`
	NetworkingIntensity Intensity           `json:"networking_intensity,omitempty"`
	ExistingNetwork     ExistingNetwork     `json:"existing_network,omitempty"`
	PastExperience      string              `json:"past_experience,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// Source is the provenance tag of a directory entry.
type Source string

const (
	SourceOptIn        Source = "opt_in"
	SourcePublicRecord Source = "public_record"
	SourceReferral     Source = "referral"
)

// AlumniRecord is a directory entry.
type AlumniRecord struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Company        string    `json:"company,omitempty"`
	Role           string    `json:"role,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	Sport          string    `json:"sport"`
	GraduationYear int       `json:"graduation_year"`
	Location       string    `json:"location,omitempty"`
	LinkedInURL    string    `json:"linkedin_url,omitempty"`
	Email          string    `json:"email,omitempty"`
	IsPublic       bool      `json:"is_public"`
	IsVerified     bool      `json:"is_verified"`
	Source         Source    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScoredCandidate is an AlumniRecord with its affinity score for one pass.
// Never persisted.
type ScoredCandidate struct {
	AlumniRecord
	Score int `json:"score"`
}

// Plan is a RecommendationPlan: the named output of one generation run.
type Plan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	GoalCount int       `json:"goal_count"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryStatus is the user-driven lifecycle of a PlanEntry.
type EntryStatus string

const (
	EntryActive        EntryStatus = "active"
	EntryContacted     EntryStatus = "contacted"
	EntryNotInterested EntryStatus = "not_interested"
)

// PlanEntry links a plan to one alumnus with generated content.
type PlanEntry struct {
	ID                   string        `json:"id"`
	PlanID               string        `json:"plan_id"`
	AlumniID             string        `json:"alumni_id"`
	CareerSummary        string        `json:"career_summary"`
	CompanyBio           string        `json:"company_bio,omitempty"`
	TalkingPoints        []string      `json:"talking_points"`
	RecommendationReason string        `json:"recommendation_reason"`
	Status               EntryStatus   `json:"status"`
	SortOrder            int           `json:"sort_order"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	Alumni               *AlumniRecord `json:"alumni,omitempty"`
}

// PlanWithEntries is a plan plus its entries ordered by sort_order.
type PlanWithEntries struct {
	Plan
	Entries []PlanEntry `json:"entries"`
}

// ConnectionStatus tracks a saved alumnus through the outreach funnel.
type ConnectionStatus string

const (
	ConnInterested       ConnectionStatus = "interested"
	ConnAwaitingReply    ConnectionStatus = "awaiting_reply"
	ConnResponseNeeded   ConnectionStatus = "response_needed"
	ConnMeetingScheduled ConnectionStatus = "meeting_scheduled"
	ConnMet              ConnectionStatus = "met"
)

// Connection is an alumnus saved to the user's network.
type Connection struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	AlumniID    string           `json:"alumni_id"`
	Status      ConnectionStatus `json:"status"`
	Contacted   bool             `json:"contacted"`
	ContactedAt *time.Time       `json:"contacted_at,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Alumni      *AlumniRecord    `json:"alumni,omitempty"`
}

// Tone of a drafted outreach message.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneNeutral  Tone = "neutral"
	ToneFormal   Tone = "formal"
)

// SentVia records how a message left the app.
type SentVia string

const (
	SentLinkedIn SentVia = "linkedin"
	SentEmail    SentVia = "email"
	SentCopied   SentVia = "copied"
)

// Message is an outreach message the user sent.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AlumniID  string    `json:"alumni_id"`
	Content   string    `json:"message_content"`
	SentVia   SentVia   `json:"sent_via"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionType is the kind of a suggested action.
type ActionType string

const (
	ActionCalendarEvent   ActionType = "calendar_event"
	ActionEmailDraft      ActionType = "email_draft"
	ActionLinkedInMessage ActionType = "linkedin_message"
	ActionFollowUp        ActionType = "follow_up"
)

// ActionStatus is the lifecycle of a suggested action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionDismissed ActionStatus = "dismissed"
	ActionExpired   ActionStatus = "expired"
)

// SuggestedAction is a nudge shown to the user.
type SuggestedAction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ActionType      ActionType      `json:"action_type"`
	Payload         json.RawMessage `json:"payload"`
	AlumniID        string          `json:"alumni_id,omitempty"`
	AIReasoning     string          `json:"ai_reasoning,omitempty"`
	ConfidenceScore float64         `json:"confidence_score,omitempty"`
	Status          ActionStatus    `json:"status"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Event is one row of the user activity log.
type Event struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"event_data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// JobType is how a posting is worked.
type JobType string

const (
	JobRemote JobType = "remote"
	JobOnsite JobType = "onsite"
	JobHybrid JobType = "hybrid"
)

// Seniority is the experience level a posting targets.
type Seniority string

const (
	SeniorityInternship Seniority = "internship"
	SeniorityEntry      Seniority = "entry"
	SeniorityMid        Seniority = "mid"
	SenioritySenior     Seniority = "senior"
	SeniorityExecutive  Seniority = "executive"
)

// Job is one posting on the jobs board.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location,omitempty"`
	SalaryRange    string     `json:"salary_range,omitempty"`
	JobType        JobType    `json:"job_type,omitempty"`
	Description    string     `json:"description,omitempty"`
	ExternalURL    string     `json:"external_url,omitempty"`
	ExternalID     string     `json:"external_id,omitempty"`
	Source         string     `json:"source"`
	Industry       string     `json:"industry,omitempty"`
	SeniorityLevel Seniority  `json:"seniority_level,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// InteractionType is what a student did with a posting.
type InteractionType string

const (
	InteractionSaved     InteractionType = "saved"
	InteractionApplied   InteractionType = "applied"
	InteractionDismissed InteractionType = "dismissed"
	InteractionViewed    InteractionType = "viewed"
)

// JobInteraction records one interaction type per (user, job).
type JobInteraction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	JobID     string          `json:"job_id"`
	Type      InteractionType `json:"interaction_type"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Job       *Job            `json:"job,omitempty"`
}
