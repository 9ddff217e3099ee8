package alumni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	profile := UserProfile{
		PrimaryIndustry:     "Finance",
		SecondaryIndustries: []string{"Consulting", "Technology"},
		PreferredLocations:  []string{"New York"},
		Sport:               "Rowing",
	}

	tests := []struct {
		name string
		rec  AlumniRecord
		want int
	}{
		{"primary and sport", AlumniRecord{Industry: "Finance", Sport: "Rowing"}, 4},
		{"secondary and sport", AlumniRecord{Industry: "Technology", Sport: "Rowing"}, 2},
		{"case insensitive", AlumniRecord{Industry: "FINANCE", Sport: "rowing"}, 4},
		{"location substring", AlumniRecord{Location: "New York, NY"}, 2},
		{"location reverse substring", AlumniRecord{Location: "york"}, 2},
		{"everything", AlumniRecord{Industry: "Finance", Location: "New York", Sport: "Rowing"}, 6},
		{"nothing", AlumniRecord{Industry: "Law", Location: "Denver", Sport: "Golf"}, 0},
		{"blank fields never match", AlumniRecord{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.rec, profile))
		})
	}
}

func TestScore_BlankProfile(t *testing.T) {
	rec := AlumniRecord{Industry: "Finance", Location: "Boston", Sport: "Rowing"}
	assert.Zero(t, Score(rec, UserProfile{}))
}

func TestScore_SecondaryCountsOnce(t *testing.T) {
	p := UserProfile{SecondaryIndustries: []string{"Media", "media"}, PreferredLocations: []string{"LA", "Los Angeles"}}
	rec := AlumniRecord{Industry: "Media", Location: "Los Angeles, CA"}
	assert.Equal(t, weightSecondaryIndustry+weightLocation, Score(rec, p))
}

func TestScore_Deterministic(t *testing.T) {
	p := UserProfile{PrimaryIndustry: "Finance", Sport: "Rowing", PreferredLocations: []string{"Boston"}}
	rec := AlumniRecord{Industry: "Finance", Sport: "Rowing", Location: "Boston"}
	first := Score(rec, p)
	for range 10 {
		require.Equal(t, first, Score(rec, p))
	}
}
