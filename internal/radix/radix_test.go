package radix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBrcTree() *Tree[string] {
	tr := New[string]()
	tr.Insert("JCM", "JCM")
	tr.Insert("DSM", "DSM")
	tr.Insert("DSMZ", "DSMZ")
	tr.Insert("DSM-Z", "DSM-Z synonym")
	tr.Insert("TCC", "TCC")
	tr.Insert("KCTC", "KCTC")
	tr.Compact()
	return tr
}

func TestFullMatch(t *testing.T) {
	tr := buildBrcTree()

	cases := []struct {
		key  string
		want string
		ok   bool
	}{
		{"JCM", "JCM", true},
		{"DSM", "DSM", true},
		{"DSMZ", "DSMZ", true},
		{"DS", "", false},
		{"KCTCX", "", false},
	}
	for _, c := range cases {
		got, ok := tr.FullMatch(c.key)
		assert.Equal(t, c.ok, ok, c.key)
		if c.ok {
			assert.Contains(t, got, c.want, c.key)
		}
	}
}

func TestFullMatchNormalizesPunctuationAndWhitespace(t *testing.T) {
	tr := New[string]()
	tr.Insert("DSM-Z", "dash form")

	for _, query := range []string{"DSM-Z", "DSM Z", "DSM_Z", "DSM:Z"} {
		got, ok := tr.FullMatch(query)
		require.True(t, ok, query)
		assert.Equal(t, []string{"dash form"}, got, query)
	}

	_, ok := tr.FullMatch("DSMZ")
	assert.False(t, ok, "collapsed separator form must not match the no-separator acronym")
}

func TestInsertAccumulatesValuesAsASet(t *testing.T) {
	tr := New[string]()
	tr.Insert("DSM", "row-1")
	tr.Insert("DSM", "row-2")

	got, ok := tr.FullMatch("DSM")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"row-1", "row-2"}, got)
}

func TestPrefixMatchesPicksLongest(t *testing.T) {
	tr := buildBrcTree()

	match, ok := tr.LongestPrefixMatch("DSMZ1234")
	require.True(t, ok)
	assert.Contains(t, match.Values, "DSMZ")
	assert.Equal(t, 4, match.Len)

	match, ok = tr.LongestPrefixMatch("DSM1234")
	require.True(t, ok)
	assert.Contains(t, match.Values, "DSM")
}

func TestScanInTextFindsSeparatedTokens(t *testing.T) {
	tr := buildBrcTree()

	text := "strain (JCM 1234) deposited at DSMZ:5678 also see DSM 9"
	matches := tr.ScanInText(text)
	require.Len(t, matches, 3)
	assert.Contains(t, matches[0].Values, "JCM")
	assert.Contains(t, matches[1].Values, "DSMZ")
	assert.Contains(t, matches[2].Values, "DSM")
}

func TestScanInTextToleratesPunctuationNoiseInsideTheSynonym(t *testing.T) {
	tr := buildBrcTree()

	matches := tr.ScanInText("see DSM Z 9012 for details")
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].Values, "DSM-Z synonym")
}

func TestScanInTextRejectsGluedPrefix(t *testing.T) {
	tr := buildBrcTree()
	matches := tr.ScanInText("subDSMstrain")
	assert.Empty(t, matches)
}

func TestCompactIsIdempotent(t *testing.T) {
	tr := buildBrcTree()
	before := tr.PrefixMatches("DSMZ")
	tr.Compact()
	after := tr.PrefixMatches("DSMZ")
	assert.Equal(t, before, after)
}
