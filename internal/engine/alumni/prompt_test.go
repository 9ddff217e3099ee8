package alumni

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserContext_RendersNA(t *testing.T) {
	ctx := BuildUserContext(UserProfile{UserID: "u1"})

	for _, label := range []string{
		"- Name: N/A", "- Sport: N/A", "- Graduation Year: N/A", "- Major: N/A",
		"- Current Position: N/A", "- Primary Industry Interest: N/A", "- Secondary Industries: N/A",
		"- Target Roles: N/A", "- Preferred Locations: N/A", "- Geography Preference: N/A",
		"- Current Stage: N/A", "- Networking Experience: N/A", "- Networking Pace: N/A",
		"- Past Experience: N/A",
	} {
		assert.Contains(t, ctx, label)
	}
}

func TestBuildUserContext_Filled(t *testing.T) {
	ctx := BuildUserContext(UserProfile{
		FullName:            "Sam Lee",
		Sport:               "Rowing",
		GraduationYear:      2026,
		Role:                "Analyst",
		Company:             "Acme",
		PrimaryIndustry:     "Finance",
		SecondaryIndustries: []string{"Consulting", "Technology"},
		Stage:               StageRecruiting,
		NetworkingIntensity: Intensity10,
	})

	assert.Contains(t, ctx, "- Name: Sam Lee")
	assert.Contains(t, ctx, "- Graduation Year: 2026")
	assert.Contains(t, ctx, "- Current Position: Analyst at Acme")
	assert.Contains(t, ctx, "- Secondary Industries: Consulting, Technology")
	assert.Contains(t, ctx, "- Current Stage: recruiting (")
	assert.Contains(t, ctx, "- Networking Pace: 10 (")
}

func TestCandidateLine(t *testing.T) {
	line := CandidateLine(3, AlumniRecord{
		FullName: "Jane Doe", Role: "VP", Company: "Goldman Sachs", Industry: "Finance",
		Sport: "Rowing", GraduationYear: 2008, Location: "New York",
	})
	assert.Equal(t, "3. Jane Doe | VP @ Goldman Sachs | Finance | Rowing '08 | New York", line)

	sparse := CandidateLine(1, AlumniRecord{FullName: "John Roe", Company: "Acme"})
	assert.Equal(t, "1. John Roe | N/A @ Acme | N/A | N/A N/A | N/A", sparse)
}

func TestCandidateLine_SeparatorsInFields(t *testing.T) {
	line := CandidateLine(2, AlumniRecord{
		FullName: "Jane\nDoe", Role: "VP | Sales", Company: "Acme\r\nCorp", Industry: "Finance",
		Sport: "Rowing", GraduationYear: 2010, Location: "New York|NY",
	})
	assert.Equal(t, "2. Jane Doe | VP Sales @ Acme Corp | Finance | Rowing '10 | New York NY", line)
	assert.NotContains(t, line, "\n")
	assert.Len(t, strings.Split(line, " | "), 5)
}

func TestBuildPlanPrompt_Deterministic(t *testing.T) {
	p := UserProfile{PrimaryIndustry: "Finance"}
	cands := []ScoredCandidate{
		{AlumniRecord: AlumniRecord{FullName: "Jane Doe", Company: "Acme"}, Score: 3},
		{AlumniRecord: AlumniRecord{FullName: "John Roe", Company: "Initech"}, Score: 0},
	}

	first := BuildPlanPrompt(p, cands, 5)
	assert.Equal(t, first, BuildPlanPrompt(p, cands, 5))
	assert.Contains(t, first, "1. Jane Doe")
	assert.Contains(t, first, "2. John Roe")
	assert.Less(t, strings.Index(first, "Jane Doe"), strings.Index(first, "John Roe"))
	assert.Contains(t, first, "recommendations")
}

func TestBuildMessagePrompt_Tone(t *testing.T) {
	a := AlumniRecord{FullName: "Jane Doe", Company: "Acme"}
	for tone, instruction := range toneInstructions {
		assert.Contains(t, BuildMessagePrompt(UserProfile{}, a, tone), instruction)
	}
}

func TestBuildCoachPrompt_NoAlumni(t *testing.T) {
	prompt := BuildCoachPrompt(UserProfile{}, "Venture Capital", nil)
	assert.Contains(t, prompt, "No specific alumni matches found")
	assert.Contains(t, prompt, "Venture Capital")
}

func TestBuildClassifyPrompt(t *testing.T) {
	prompt := BuildClassifyPrompt([]AlumniRecord{{FullName: "Jane Doe", Role: "Engineer", Company: "Google"}})
	assert.Contains(t, prompt, "1. Jane Doe | Engineer @ Google")
	for _, industry := range ValidIndustries {
		assert.Contains(t, prompt, industry)
	}
}
