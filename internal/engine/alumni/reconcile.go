package alumni

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_alumni/internal/engine"
)

// ParseKind tags the outcome of parsing a model response.
type ParseKind int

const (
	ParseOK ParseKind = iota
	ParseMalformed
	ParseEmpty
)

func (k ParseKind) String() string {
	switch k {
	case ParseOK:
		return "ok"
	case ParseMalformed:
		return "malformed"
	case ParseEmpty:
		return "empty"
	}
	return "unknown"
}

// ParseResult is Ok(recommendations) | Malformed | Empty.
// Recommendations is non-empty exactly when Kind == ParseOK.
type ParseResult struct {
	Kind            ParseKind
	Recommendations []RawRecommendation
}

// RawRecommendation is one element of the model's recommendations array, unvalidated.
type RawRecommendation struct {
	Index                flexInt     `json:"index"`
	FullName             string      `json:"full_name"`
	CareerSummary        string      `json:"career_summary"`
	CompanyBio           string      `json:"company_bio"`
	TalkingPoints        flexStrings `json:"talking_points"`
	RecommendationReason string      `json:"recommendation_reason"`
}

// flexInt accepts 3, 3.0, "3" and null.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		// Unusable index; the name may still resolve.
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexStrings accepts a string array or a single string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = []string{one}
		return nil
	}
	*f = nil
	return nil
}

type recommendationEnvelope struct {
	Recommendations *[]RawRecommendation `json:"recommendations"`
}

// ParseRecommendations decodes raw directly, then falls back to the greedy
// first-'{'-to-last-'}' span. Surrounding prose and code fences are tolerated.
func ParseRecommendations(raw string) ParseResult {
	text := engine.StripFences(raw)

	recs, ok := decodeRecommendations(text)
	if !ok {
		if obj := engine.ExtractJSONObject(text); obj != "" && obj != text {
			recs, ok = decodeRecommendations(obj)
		}
	}
	switch {
	case !ok:
		return ParseResult{Kind: ParseMalformed}
	case len(recs) == 0:
		return ParseResult{Kind: ParseEmpty}
	}
	return ParseResult{Kind: ParseOK, Recommendations: recs}
}

func decodeRecommendations(text string) ([]RawRecommendation, bool) {
	if strings.HasPrefix(text, "[") {
		var list []RawRecommendation
		if err := json.Unmarshal([]byte(text), &list); err == nil {
			return list, true
		}
	}
	var env recommendationEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil || env.Recommendations == nil {
		return nil, false
	}
	return *env.Recommendations, true
}

// ResolveCandidate finds the candidate a recommendation refers to. The
// 1-based index wins when it points at a candidate with the same name, so
// namesakes stay distinct; otherwise the first case-insensitive name match,
// then the bare index.
func ResolveCandidate(rec RawRecommendation, candidates []ScoredCandidate) (ScoredCandidate, bool) {
	i := int(rec.Index)
	inRange := i >= 1 && i <= len(candidates)
	if inRange && engine.EqualFold(candidates[i-1].FullName, rec.FullName) {
		return candidates[i-1], true
	}
	for _, c := range candidates {
		if engine.EqualFold(c.FullName, rec.FullName) {
			return c, true
		}
	}
	if inRange {
		return candidates[i-1], true
	}
	return ScoredCandidate{}, false
}

// Reconcile turns a raw model response into unpersisted plan entries that
// each trace to a candidate, deduplicated, in the model's order, with
// sort_order = startSortOrder + position.
func Reconcile(raw string, candidates []ScoredCandidate, startSortOrder int) ([]PlanEntry, error) {
	entries, _, err := reconcile(raw, candidates, startSortOrder)
	return entries, err
}

func reconcile(raw string, candidates []ScoredCandidate, startSortOrder int) ([]PlanEntry, int, error) {
	res := ParseRecommendations(raw)
	switch res.Kind {
	case ParseMalformed:
		return nil, 0, &UnparseableResponseError{Raw: raw}
	case ParseEmpty:
		return nil, 0, &EmptyRecommendationSetError{Raw: raw}
	}

	seen := make(map[string]struct{}, len(res.Recommendations))
	entries := make([]PlanEntry, 0, len(res.Recommendations))
	discarded := 0
	for _, rec := range res.Recommendations {
		c, ok := ResolveCandidate(rec, candidates)
		if !ok {
			discarded++
			continue
		}
		if _, dup := seen[c.ID]; dup {
			discarded++
			continue
		}
		seen[c.ID] = struct{}{}

		alumnus := c.AlumniRecord
		entries = append(entries, PlanEntry{
			AlumniID:             c.ID,
			CareerSummary:        strings.TrimSpace(rec.CareerSummary),
			CompanyBio:           strings.TrimSpace(rec.CompanyBio),
			TalkingPoints:        cleanTalkingPoints(rec.TalkingPoints),
			RecommendationReason: strings.TrimSpace(rec.RecommendationReason),
			Status:               EntryActive,
			SortOrder:            startSortOrder + len(entries),
			Alumni:               &alumnus,
		})
	}
	if len(entries) == 0 {
		return nil, discarded, &EmptyRecommendationSetError{Raw: raw}
	}
	return entries, discarded, nil
}

const maxTalkingPoints = 3

func cleanTalkingPoints(points []string) []string {
	out := make([]string, 0, maxTalkingPoints)
	for _, p := range points {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
		if len(out) == maxTalkingPoints {
			break
		}
	}
	return out
}
