package alumni

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

// planPrompt asks the model to choose and annotate alumni from a numbered list.
// Args: requested count, user context, candidate listing, requested count.
const planPrompt = `You are a career networking advisor for a college student-athlete. Based on the student's profile and goals, select the top %d alumni from the list below and generate personalized content for each.

STUDENT PROFILE:
%s

AVAILABLE ALUMNI:
%s

Respond with a single JSON object in exactly this format (no markdown, no commentary):
{
  "recommendations": [
    {
      "index": <number of the alumnus in the list above>,
      "full_name": "<the alumnus' full name exactly as listed>",
      "career_summary": "<2-3 sentence summary of their career path and why they are valuable to connect with>",
      "company_bio": "<optional 1 sentence about their company>",
      "talking_points": ["<point 1>", "<point 2>", "<point 3>"],
      "recommendation_reason": "<1 sentence explaining why this person is a great match for the student>"
    }
  ]
}

Rules:
- index and full_name must both refer to the same listed person.
- Select the %d most relevant alumni, best match first. Only choose people from the list.
- Prioritize the student's target industries, roles and locations.
- talking_points must contain exactly 3 specific points based on the person's actual company and role. No generic advice.
- Respond ONLY with valid JSON.`

// messagePrompt drafts one outreach message.
// Args: user context, alumnus name, company, role, industry, sport, graduation year, tone, tone instructions.
const messagePrompt = `Generate a networking outreach message from a current college student-athlete to an alumnus of the same athletics program.

SENDER:
%s

RECIPIENT:
- Name: %s
- Company: %s
- Role: %s
- Industry: %s
- Sport: %s
- Graduation Year: %s

TONE: %s
%s

REQUIREMENTS:
- 150-200 words
- Mention the shared athletics connection
- Reference their specific company and role
- Ask for a brief call or coffee chat
- Do NOT use placeholder brackets like [Your Name]; use the information provided or omit it
- End with a simple sign-off using the sender's first name only

Write only the message, no additional commentary.`

var toneInstructions = map[Tone]string{
	ToneFriendly: "Write in a warm, casual and enthusiastic tone. Use conversational language and show genuine excitement. Use exclamation points sparingly.",
	ToneNeutral:  "Write in a professional but approachable tone. Balance warmth with professionalism. Be respectful and clear.",
	ToneFormal:   "Write in a formal, professional tone. Be polished and business-like. Use proper salutations and maintain a respectful distance.",
}

// coachPrompt asks for a personalized career action plan.
// Args: interest, user context, alumni listing, interest.
const coachPrompt = `You are a career coach for college student-athletes. Generate a personalized action plan for a student interested in %s.

STUDENT PROFILE:
%s

RELEVANT ALUMNI IN THE DIRECTORY:
%s

Respond with a single JSON object in exactly this format:
{
  "shortTermActions": [{"text": "specific action for the next 1-2 weeks", "priority": "high|medium|low"}],
  "longTermActions": [{"text": "goal for the next 1-3 months", "priority": "high|medium|low"}],
  "alumniRecommendations": [{"alumniName": "name exactly as listed above", "reason": "one personalized sentence"}],
  "keyInsight": "one strategic insight specific to %s and being a student-athlete"
}

Requirements:
- 5 short-term actions and 4 long-term actions
- Be specific to the interest, not generic career advice
- Reference the student's sport background as an advantage where relevant
- Only recommend alumni from the list above
- Return ONLY valid JSON, no other text.`

// nextStepsPrompt asks for follow-up items after progress on a career plan.
// Args: interest, user context, completed items, remaining items.
const nextStepsPrompt = `You are a career coach for college student-athletes. A student interested in %s has been working through an action plan.

STUDENT PROFILE:
%s

COMPLETED ITEMS:
%s

STILL TO DO:
%s

Suggest 4-6 NEW next steps that build on what is completed. Do not repeat any item listed above.

Respond with a single JSON object in exactly this format:
{
  "nextSteps": [{"text": "specific action", "priority": "high|medium|low"}]
}

Return ONLY valid JSON, no other text.`

// classifyPrompt maps alumni to one of the fixed industries.
// Args: industry list, numbered alumni listing.
const classifyPrompt = `Classify each person below into exactly one of these industries: %s.
Use their company and role. If no industry fits, use null.

PEOPLE:
%s

Rules:
- Teachers, professors, educators: Education
- Software engineers, developers, tech companies: Technology
- Bankers, investment analysts, financial advisors: Finance
- Doctors, nurses, healthcare workers, pharma: Healthcare
- Lawyers, attorneys, legal professionals: Law
- Consultants at strategy or management consulting firms: Consulting
- Athletes, coaches, sports organizations: Sports
- Journalists, entertainment, advertising: Media
- Government workers, military, policy: Government
- Nonprofit workers, NGOs, foundations: Nonprofit
- Real estate agents, property managers: Real Estate
- Role and company missing or unclear: null

Respond ONLY with a JSON array, one element per person, "index" being 1-based:
[{"index": 1, "industry": "Finance"}, {"index": 2, "industry": null}]`

var stageLabels = map[Stage]string{
	StageExploring:            "Exploring career options, not yet sure what industry or role they want",
	StageRecruiting:           "Actively recruiting, applying to jobs and looking for opportunities",
	StageInterviewing:         "In the interview process with active applications",
	StageReferrals:            "Looking for referrals and warm intros at specific companies",
	StageRelationshipBuilding: "Relationship building, focused on long-term networking rather than an immediate job search",
}

var networkLabels = map[ExistingNetwork]string{
	NetworkNone:             "No alumni networking experience yet",
	NetworkFewConversations: "Has had a few networking conversations",
	NetworkOngoing:          "Has an ongoing networking practice",
}

var intensityLabels = map[Intensity]string{
	Intensity20:      "Aggressive, about 20 connections per week",
	Intensity10:      "Active, about 10 connections per week",
	Intensity5:       "Moderate, about 5 connections per week",
	IntensityOwnPace: "Own pace, no weekly target",
}

// labelled renders a known enum as "value (description)", or the raw value / N/A.
func labelled[K ~string](v K, labels map[K]string) string {
	if l, ok := labels[v]; ok {
		return string(v) + " (" + l + ")"
	}
	return engine.OrNA(string(v))
}

func yearOrNA(y int) string {
	if y <= 0 {
		return engine.NA
	}
	return strconv.Itoa(y)
}

// BuildUserContext renders every profile field as a labelled line. Absent
// values are rendered as N/A, never omitted.
func BuildUserContext(p UserProfile) string {
	position := engine.NA
	switch {
	case p.Role != "" && p.Company != "":
		position = p.Role + " at " + p.Company
	case p.Role != "":
		position = p.Role
	case p.Company != "":
		position = "at " + p.Company
	}

	lines := []string{
		"- Name: " + engine.OrNA(p.FullName),
		"- Sport: " + engine.OrNA(p.Sport),
		"- Graduation Year: " + yearOrNA(p.GraduationYear),
		"- Major: " + engine.OrNA(p.Major),
		"- Current Position: " + position,
		"- Primary Industry Interest: " + engine.OrNA(p.PrimaryIndustry),
		"- Secondary Industries: " + engine.JoinOrNA(p.SecondaryIndustries),
		"- Target Roles: " + engine.JoinOrNA(p.TargetRoles),
		"- Preferred Locations: " + engine.JoinOrNA(p.PreferredLocations),
		"- Geography Preference: " + engine.OrNA(string(p.GeographyPreference)),
		"- Current Stage: " + labelled(p.Stage, stageLabels),
		"- Networking Experience: " + labelled(p.ExistingNetwork, networkLabels),
		"- Networking Pace: " + labelled(p.NetworkingIntensity, intensityLabels),
		"- Past Experience: " + engine.OrNA(p.PastExperience),
	}
	return strings.Join(lines, "\n")
}

// CandidateLine renders one 1-indexed listing line:
// "N. Full Name | Role @ Company | Industry | Sport 'YY | Location".
func CandidateLine(n int, a AlumniRecord) string {
	year := engine.NA
	if a.GraduationYear > 0 {
		year = fmt.Sprintf("'%02d", a.GraduationYear%100)
	}
	return fmt.Sprintf("%d. %s | %s @ %s | %s | %s %s | %s",
		n, lineField(a.FullName), engine.OrNA(lineField(a.Role)), engine.OrNA(lineField(a.Company)),
		engine.OrNA(lineField(a.Industry)), engine.OrNA(lineField(a.Sport)), year, engine.OrNA(lineField(a.Location)))
}

// lineFieldReplacer keeps a candidate on one line with five " | " segments.
var lineFieldReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", " ")

func lineField(s string) string {
	return strings.Join(strings.Fields(lineFieldReplacer.Replace(s)), " ")
}

// BuildPlanPrompt serializes the profile and the ordered candidate list into
// the recommendation prompt. Output is deterministic for equal input.
func BuildPlanPrompt(p UserProfile, candidates []ScoredCandidate, requestedCount int) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		lines[i] = CandidateLine(i+1, c.AlumniRecord)
	}
	return fmt.Sprintf(planPrompt, requestedCount, BuildUserContext(p), strings.Join(lines, "\n"), requestedCount)
}

// BuildMessagePrompt renders the outreach drafting prompt.
func BuildMessagePrompt(p UserProfile, a AlumniRecord, tone Tone) string {
	return fmt.Sprintf(messagePrompt, BuildUserContext(p),
		a.FullName, engine.OrNA(a.Company), engine.OrNA(a.Role), engine.OrNA(a.Industry),
		engine.OrNA(a.Sport), yearOrNA(a.GraduationYear), tone, toneInstructions[tone])
}

// BuildCoachPrompt renders the career-plan prompt for up to maxCoachAlumni alumni.
func BuildCoachPrompt(p UserProfile, interest string, alumni []AlumniRecord) string {
	listing := "No specific alumni matches found"
	if len(alumni) > 0 {
		lines := make([]string, len(alumni))
		for i, a := range alumni {
			lines[i] = CandidateLine(i+1, a)
		}
		listing = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(coachPrompt, interest, BuildUserContext(p), listing, interest)
}

// BuildNextStepsPrompt renders the follow-up prompt for a partly done plan.
func BuildNextStepsPrompt(p UserProfile, interest string, completed, remaining []CoachAction) string {
	return fmt.Sprintf(nextStepsPrompt, interest, BuildUserContext(p), actionListing(completed), actionListing(remaining))
}

func actionListing(items []CoachAction) string {
	if len(items) == 0 {
		return "None"
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("- [%s] %s", engine.OrNA(it.Priority), lineField(it.Text))
	}
	return strings.Join(lines, "\n")
}

// BuildClassifyPrompt renders the industry classification prompt for one batch.
func BuildClassifyPrompt(batch []AlumniRecord) string {
	lines := make([]string, len(batch))
	for i, a := range batch {
		lines[i] = fmt.Sprintf("%d. %s | %s @ %s", i+1, a.FullName, engine.OrNA(a.Role), engine.OrNA(a.Company))
	}
	return fmt.Sprintf(classifyPrompt, strings.Join(ValidIndustries, ", "), strings.Join(lines, "\n"))
}
