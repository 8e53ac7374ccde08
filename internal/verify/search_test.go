package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"saimgo/internal/model"
)

func TestIsCCNoInTextToleratesSeparatorsAndLeadingZeros(t *testing.T) {
	id := model.CCNoId{Acr: "DSM", Core: "1234"}
	assert.True(t, IsCCNoInText("Strain DSM 001234 was deposited", id, ""))
	assert.True(t, IsCCNoInText("DSM:1234", id, ""))
	assert.False(t, IsCCNoInText("DSM 5678", id, ""))
}

func TestIsCCNoInTextStripsSuffixChars(t *testing.T) {
	id := model.CCNoId{Acr: "JCM", Core: "42", Suffix: "T"}
	assert.True(t, IsCCNoInText("JCM 42 T", id, " "))
	assert.True(t, IsCCNoInText("JCM 42T", id, ""))
}

func TestIsStringInTextRequiresWholeWord(t *testing.T) {
	assert.True(t, IsStringInText("a novel thermophile strain", "thermophile"))
	assert.False(t, IsStringInText("thermophiles are neat", "thermophile"))
}

func TestIsStringInTextMatchesEachWordOfAMultiWordExtraSeparately(t *testing.T) {
	assert.True(t, IsStringInText("isolated from soil, a type strain of Bacillus", "type strain"))
	assert.True(t, IsStringInText("strain of the new type was isolated", "type strain"), "words need not be contiguous or in order")
	assert.False(t, IsStringInText("only the strain was mentioned here", "type strain"))
}

func TestFindElementsInContentRequiresAllExtras(t *testing.T) {
	id := model.CCNoId{Acr: "DSM", Core: "1"}
	text := "DSM 1, isolated from soil, genus Bacillus"
	assert.True(t, FindElementsInContent(text, id, "", []string{"soil", "Bacillus"}))
	assert.False(t, FindElementsInContent(text, id, "", []string{"soil", "marine"}))
}

func TestVisibleTextDropsTagsAndScripts(t *testing.T) {
	html := `<html><body><script>var ccno="DSM 999";</script><p>Strain DSM 1234 deposited here.</p></body></html>`
	text := VisibleText(html)
	assert.Contains(t, text, "DSM 1234")
	assert.NotContains(t, text, "var ccno")
}

func TestVisibleTextOfEmptyBodyIsEmpty(t *testing.T) {
	text := VisibleText("")
	assert.Equal(t, "", text)
}
