package alumni

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, industry, sport string) AlumniRecord {
	return AlumniRecord{
		ID: id, FullName: "Alum " + id, Company: "Acme", Industry: industry, Sport: sport, IsPublic: true,
	}
}

func ids(cs []ScoredCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestSelectCandidates_ScoresAndOrder(t *testing.T) {
	p := UserProfile{PrimaryIndustry: "Finance", Sport: "Rowing"}
	all := []AlumniRecord{
		candidate("tech", "Technology", "Rowing"),
		candidate("fin", "Finance", "Rowing"),
	}

	got, err := SelectCandidates(all, nil, p, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"fin", "tech"}, ids(got))
	assert.Equal(t, 4, got[0].Score)
	assert.Equal(t, 1, got[1].Score)
}

func TestSelectCandidates_StableTies(t *testing.T) {
	p := UserProfile{PrimaryIndustry: "Finance"}
	all := []AlumniRecord{
		candidate("a", "Law", ""),
		candidate("b", "Finance", ""),
		candidate("c", "Law", ""),
		candidate("d", "Finance", ""),
		candidate("e", "Law", ""),
	}

	got, err := SelectCandidates(all, nil, p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(got))

	again, err := SelectCandidates(all, nil, p, 10)
	require.NoError(t, err)
	assert.Equal(t, ids(got), ids(again))
}

func TestSelectCandidates_Truncates(t *testing.T) {
	all := make([]AlumniRecord, 0, 20)
	for i := range 20 {
		all = append(all, candidate(fmt.Sprintf("id-%02d", i), "Law", ""))
	}
	got, err := SelectCandidates(all, nil, UserProfile{}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2*Oversample)
	assert.Equal(t, "id-00", got[0].ID)
}

func TestSelectCandidates_Filters(t *testing.T) {
	private := candidate("private", "Finance", "")
	private.IsPublic = false
	noCompany := candidate("nocompany", "Finance", "")
	noCompany.Company = "  "
	all := []AlumniRecord{private, noCompany, candidate("excluded", "Finance", ""), candidate("kept", "Law", "")}

	got, err := SelectCandidates(all, idSet([]string{"excluded"}), UserProfile{PrimaryIndustry: "Finance"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids(got))
}

func TestSelectCandidates_AllExcluded(t *testing.T) {
	all := []AlumniRecord{candidate("a", "Finance", ""), candidate("b", "Law", "")}
	_, err := SelectCandidates(all, idSet([]string{"a"}, []string{"b"}), UserProfile{}, 5)
	assert.True(t, errors.Is(err, ErrInsufficientCandidates))
}

func TestSelectCandidates_EmptyDirectory(t *testing.T) {
	_, err := SelectCandidates(nil, nil, UserProfile{}, 5)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestSelectCandidates_InvalidCount(t *testing.T) {
	_, err := SelectCandidates([]AlumniRecord{candidate("a", "", "")}, nil, UserProfile{}, 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
