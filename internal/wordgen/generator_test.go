package wordgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSeeds() *Seeds {
	return &Seeds{
		Base: []BaseEntry{
			{"ид-", "идти", "to go (uni-dir)"},
			{"дел-", "делать", "to do"},
			{"пис-", "писать", "to write"},
		},
		Derivatives: DerivativeTable{
			{"идти", []Form{{"войти", "to enter (pfv)"}, {"выйти", "to exit (pfv)"}}},
			{"лететь", []Form{{"улететь", "to fly away (pfv)"}}},
		},
		Prefixes:  []string{"по", "", "за"},
		Templates: DefaultSeeds().Templates,
	}
}

func indexOf(candidates []Candidate, headword string) int {
	for i, c := range candidates {
		if c.Headword == headword {
			return i
		}
	}
	return -1
}

func TestBuildCandidatesOrder(t *testing.T) {
	got := BuildCandidates(smallSeeds())

	want := []Candidate{
		{Tag: "ид-", Headword: "идти", Gloss: "to go (uni-dir)"},
		{Tag: "дел-", Headword: "делать", Gloss: "to do"},
		{Tag: "пис-", Headword: "писать", Gloss: "to write"},
		{Tag: "ид-", Headword: "войти", Gloss: "to enter (pfv)"},
		{Tag: "ид-", Headword: "выйти", Gloss: "to exit (pfv)"},
		{Tag: "лет-", Headword: "улететь", Gloss: "to fly away (pfv)", TagFallback: true},
		{Tag: "дел-", Headword: "поделать", Gloss: "to do (prefixed)"},
		{Tag: "дел-", Headword: "заделать", Gloss: "to do (prefixed)"},
		{Tag: "пис-", Headword: "пописать", Gloss: "to write (prefixed)"},
		{Tag: "пис-", Headword: "записать", Gloss: "to write (prefixed)"},
	}

	assert.Equal(t, want, got)
}

func TestBuildCandidatesCuratedNotPrefixed(t *testing.T) {
	seeds := DefaultSeeds()
	candidates := BuildCandidates(seeds)

	// войти must come from the curated table with the base tag of идти
	i := indexOf(candidates, "войти")
	require.GreaterOrEqual(t, i, 0, "войти missing from candidates")
	assert.Equal(t, Candidate{Tag: "ид-", Headword: "войти", Gloss: "to enter (pfv)"}, candidates[i])

	for _, der := range seeds.Derivatives {
		for _, p := range seeds.Prefixes {
			formed := p + der.Base
			idx := indexOf(candidates, formed)
			if idx < 0 {
				continue
			}
			assert.False(t, strings.HasSuffix(candidates[idx].Gloss, PrefixedSuffix),
				"%s was mechanically prefixed although %s has curated derivatives", formed, der.Base)
		}
	}
}

func TestBuildCandidatesPrefixNonDegenerate(t *testing.T) {
	seeds := DefaultSeeds()
	seeds.Prefixes = append([]string{""}, seeds.Prefixes...)

	for _, c := range BuildCandidates(seeds) {
		if !strings.HasSuffix(c.Gloss, PrefixedSuffix) {
			continue
		}
		base := strings.TrimSuffix(c.Gloss, PrefixedSuffix)
		found := false
		for _, b := range seeds.Base {
			if b.Gloss == base && strings.HasSuffix(c.Headword, b.Headword) && c.Headword != b.Headword {
				found = true
				break
			}
		}
		assert.True(t, found, "prefixed candidate %q has no proper base", c.Headword)
	}
}

func TestBuildCandidatesUnique(t *testing.T) {
	candidates := BuildCandidates(DefaultSeeds())
	require.Greater(t, len(candidates), 1000)

	seen := make(map[string]bool)
	for _, c := range candidates {
		assert.NotEmpty(t, c.Headword)
		assert.NotEmpty(t, c.Tag)
		assert.False(t, seen[c.Headword], "duplicate headword %s", c.Headword)
		seen[c.Headword] = true
	}
}

func TestBuildCandidatesFirstOccurrenceWins(t *testing.T) {
	candidates := BuildCandidates(DefaultSeeds())

	// сказать is both a base entry and a curated derivative of говорить
	i := indexOf(candidates, "сказать")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "сказ-", candidates[i].Tag)

	// рассмотреть is listed under видеть before смотреть
	i = indexOf(candidates, "рассмотреть")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "вид-", candidates[i].Tag)
}

func TestFallbackTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"лететь", "лет-"},
		{"ид", "ид-"},
		{"", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackTag(tt.in))
		})
	}
}
