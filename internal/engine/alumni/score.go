package alumni

import (
	"github.com/anatolykoptev/go_alumni/internal/engine"
)

// Score weights.
const (
	weightPrimaryIndustry   = 3
	weightSecondaryIndustry = 1
	weightLocation          = 2
	weightSport             = 1
)

// Score computes the additive affinity of a candidate for a profile.
// Comparisons are case-insensitive; blank fields never match.
func Score(c AlumniRecord, p UserProfile) int {
	score := 0
	if engine.EqualFold(c.Industry, p.PrimaryIndustry) {
		score += weightPrimaryIndustry
	}
	for _, si := range p.SecondaryIndustries {
		if engine.EqualFold(c.Industry, si) {
			score += weightSecondaryIndustry
			break
		}
	}
	for _, loc := range p.PreferredLocations {
		if engine.ContainsEitherFold(c.Location, loc) {
			score += weightLocation
			break
		}
	}
	if engine.EqualFold(c.Sport, p.Sport) {
		score += weightSport
	}
	return score
}
