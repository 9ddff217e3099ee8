package alumni

import (
	"sort"
	"strings"
)

// Oversample is how many candidates the model sees per requested recommendation.
const Oversample = 3

// SelectCandidates drops excluded, private and company-less alumni, scores the
// rest against p and returns the top outputCount*Oversample, highest first.
// Ties keep retrieval order.
func SelectCandidates(all []AlumniRecord, excludeIDs map[string]struct{}, p UserProfile, outputCount int) ([]ScoredCandidate, error) {
	if outputCount <= 0 {
		return nil, invalidf("requested count must be positive, got %d", outputCount)
	}

	pool := make([]ScoredCandidate, 0, len(all))
	for _, a := range all {
		if _, excluded := excludeIDs[a.ID]; excluded {
			continue
		}
		if !a.IsPublic || strings.TrimSpace(a.Company) == "" {
			continue
		}
		pool = append(pool, ScoredCandidate{AlumniRecord: a, Score: Score(a, p)})
	}
	if len(pool) == 0 {
		return nil, ErrInsufficientCandidates
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})

	return pool[:min(outputCount*Oversample, len(pool))], nil
}

// idSet builds an exclusion set from id lists.
func idSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, id := range l {
			set[id] = struct{}{}
		}
	}
	return set
}
