package alumni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentCandidates() []ScoredCandidate {
	return []ScoredCandidate{
		{AlumniRecord: AlumniRecord{ID: "a1", FullName: "Jane Doe", Company: "Acme"}, Score: 4},
		{AlumniRecord: AlumniRecord{ID: "a2", FullName: "John Roe", Company: "Initech"}, Score: 2},
		{AlumniRecord: AlumniRecord{ID: "a3", FullName: "Ann Poe", Company: "Globex"}, Score: 1},
	}
}

func TestParseRecommendations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ParseKind
		n    int
	}{
		{"plain object", `{"recommendations":[{"index":1,"full_name":"Jane Doe"}]}`, ParseOK, 1},
		{"fenced", "```json\n{\"recommendations\":[{\"index\":1}]}\n```", ParseOK, 1},
		{"bare array", `[{"index":1},{"index":2}]`, ParseOK, 2},
		{"prose around", `Here you go: {"recommendations":[{"index":2}]} Good luck!`, ParseOK, 1},
		{"empty array", `{"recommendations":[]}`, ParseEmpty, 0},
		{"missing key", `{"other":1}`, ParseMalformed, 0},
		{"null key", `{"recommendations":null}`, ParseMalformed, 0},
		{"prose around bare array", `Sure: [{"index":1,"full_name":"Jane Doe"}] done`, ParseMalformed, 0},
		{"garbage", `I could not find anyone.`, ParseMalformed, 0},
		{"broken json", `{"recommendations":[{"index":1,}`, ParseMalformed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseRecommendations(tt.raw)
			assert.Equal(t, tt.kind, res.Kind, "kind %s", res.Kind)
			assert.Len(t, res.Recommendations, tt.n)
		})
	}
}

func TestParseRecommendations_FlexibleFields(t *testing.T) {
	res := ParseRecommendations(`{"recommendations":[
		{"index":"2","talking_points":"just one"},
		{"index":3.0,"talking_points":["a","b"]},
		{"index":null,"full_name":"Ann Poe"}]}`)
	require.Equal(t, ParseOK, res.Kind)
	require.Len(t, res.Recommendations, 3)
	assert.Equal(t, flexInt(2), res.Recommendations[0].Index)
	assert.Equal(t, flexStrings{"just one"}, res.Recommendations[0].TalkingPoints)
	assert.Equal(t, flexInt(3), res.Recommendations[1].Index)
	assert.Equal(t, flexInt(0), res.Recommendations[2].Index)
}

func TestResolveCandidate(t *testing.T) {
	cands := sentCandidates()

	t.Run("name wins over mismatched index", func(t *testing.T) {
		c, ok := ResolveCandidate(RawRecommendation{Index: 1, FullName: "john roe"}, cands)
		require.True(t, ok)
		assert.Equal(t, "a2", c.ID)
	})
	t.Run("index fallback", func(t *testing.T) {
		c, ok := ResolveCandidate(RawRecommendation{Index: 3, FullName: "Someone Else"}, cands)
		require.True(t, ok)
		assert.Equal(t, "a3", c.ID)
	})
	t.Run("out of range", func(t *testing.T) {
		_, ok := ResolveCandidate(RawRecommendation{Index: 4, FullName: "Ghost"}, cands)
		assert.False(t, ok)
	})
	t.Run("zero index", func(t *testing.T) {
		_, ok := ResolveCandidate(RawRecommendation{}, cands)
		assert.False(t, ok)
	})
	t.Run("namesakes resolve by index", func(t *testing.T) {
		c, ok := ResolveCandidate(RawRecommendation{Index: 2, FullName: "John Smith"}, namesakeCandidates())
		require.True(t, ok)
		assert.Equal(t, "s2", c.ID)
		assert.Equal(t, "Initech", c.Company)
	})
	t.Run("namesake with stale index takes first name match", func(t *testing.T) {
		c, ok := ResolveCandidate(RawRecommendation{Index: 3, FullName: "John Smith"}, namesakeCandidates())
		require.True(t, ok)
		assert.Equal(t, "s1", c.ID)
	})
}

func namesakeCandidates() []ScoredCandidate {
	return []ScoredCandidate{
		{AlumniRecord: AlumniRecord{ID: "s1", FullName: "John Smith", Company: "Acme"}, Score: 3},
		{AlumniRecord: AlumniRecord{ID: "s2", FullName: "John Smith", Company: "Initech"}, Score: 3},
		{AlumniRecord: AlumniRecord{ID: "s3", FullName: "Ann Poe", Company: "Globex"}, Score: 1},
	}
}

func TestReconcile_KeepsNamesakes(t *testing.T) {
	raw := `{"recommendations":[
		{"index":2,"full_name":"John Smith"},
		{"index":1,"full_name":"john smith"}]}`

	entries, discarded, err := reconcile(raw, namesakeCandidates(), 0)
	require.NoError(t, err)
	assert.Zero(t, discarded)
	require.Len(t, entries, 2)
	assert.Equal(t, "s2", entries[0].AlumniID)
	assert.Equal(t, "s1", entries[1].AlumniID)
}

func TestReconcile_EmbeddedObject(t *testing.T) {
	raw := `Here is the result: {"recommendations":[{"index":1,"full_name":"Jane Doe","career_summary":" Leads deals. ",` +
		`"talking_points":["one"," two ","","three","four"],"recommendation_reason":"Same sport."}]} Hope that helps!`

	entries, err := Reconcile(raw, sentCandidates(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "a1", e.AlumniID)
	assert.Equal(t, "Leads deals.", e.CareerSummary)
	assert.Equal(t, []string{"one", "two", "three"}, e.TalkingPoints)
	assert.Equal(t, EntryActive, e.Status)
	assert.Equal(t, 0, e.SortOrder)
	require.NotNil(t, e.Alumni)
	assert.Equal(t, "Jane Doe", e.Alumni.FullName)
}

func TestReconcile_DiscardsHallucinations(t *testing.T) {
	raw := `{"recommendations":[
		{"index":9,"full_name":"Made Up"},
		{"index":2,"full_name":"John Roe"},
		{"index":0,"full_name":"Nobody"}]}`

	entries, discarded, err := reconcile(raw, sentCandidates(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, discarded)
	require.Len(t, entries, 1)
	assert.Equal(t, "a2", entries[0].AlumniID)
}

func TestReconcile_Dedup(t *testing.T) {
	raw := `{"recommendations":[
		{"index":1,"full_name":"Jane Doe"},
		{"index":3},
		{"index":1,"full_name":"Jane Doe"}]}`

	entries, discarded, err := reconcile(raw, sentCandidates(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, discarded)
	require.Len(t, entries, 2)
	assert.Equal(t, "a1", entries[0].AlumniID)
	assert.Equal(t, "a3", entries[1].AlumniID)
}

func TestReconcile_EveryEntryTracesToCandidate(t *testing.T) {
	raw := `{"recommendations":[{"index":3},{"index":1},{"index":7},{"full_name":"ANN POE"}]}`
	cands := sentCandidates()
	sent := idSet()
	for _, c := range cands {
		sent[c.ID] = struct{}{}
	}

	entries, err := Reconcile(raw, cands, 0)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Contains(t, sent, e.AlumniID)
	}
}

func TestReconcile_SortOrderFromStart(t *testing.T) {
	raw := `{"recommendations":[{"index":2},{"index":99},{"index":3},{"index":1}]}`

	entries, err := Reconcile(raw, sentCandidates(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, 7+i, e.SortOrder)
	}
	assert.Equal(t, []string{"a2", "a3", "a1"}, []string{entries[0].AlumniID, entries[1].AlumniID, entries[2].AlumniID})

	again, err := Reconcile(raw, sentCandidates(), 7)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestReconcile_Failures(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := Reconcile("no json here", sentCandidates(), 0)
		var target *UnparseableResponseError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "no json here", target.Raw)
	})
	t.Run("empty array", func(t *testing.T) {
		_, err := Reconcile(`{"recommendations":[]}`, sentCandidates(), 0)
		var target *EmptyRecommendationSetError
		assert.ErrorAs(t, err, &target)
	})
	t.Run("nothing resolves", func(t *testing.T) {
		_, err := Reconcile(`{"recommendations":[{"index":42,"full_name":"Ghost"}]}`, sentCandidates(), 0)
		var target *EmptyRecommendationSetError
		assert.ErrorAs(t, err, &target)
	})
}
