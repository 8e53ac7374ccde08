// Package verify implements the in-page search and the per-task verifier
// worker: given a fetched page body, decide whether it proves the
// candidate catalogue number (and any required extra strings) belong to
// that page.
package verify

import (
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"saimgo/internal/model"
)

var searchPatternCache sync.Map // map[string]*regexp.Regexp

// buildCoreRegex builds the "core id, tolerant of extra leading zeros"
// pattern the original in-page search uses: the acronym, an optional
// separator, the prefix, an optional separator after a non-empty prefix,
// any number of leading zeros, the core
// digits and the suffix with any of its strip-characters optional.
func buildCoreRegex(id model.CCNoId, stripChars string) *regexp.Regexp {
	cacheKey := id.Acr + "|" + id.Prefix + "|" + id.Core + "|" + id.Suffix + "|" + stripChars
	if cached, ok := searchPatternCache.Load(cacheKey); ok {
		return cached.(*regexp.Regexp)
	}

	var b strings.Builder
	b.WriteString(`(?i)`)
	b.WriteString(regexp.QuoteMeta(id.Acr))
	b.WriteString(`[\s,.:/_-]{0,3}`)
	b.WriteString(regexp.QuoteMeta(id.Prefix))
	if id.Prefix != "" {
		b.WriteString(`[\s,.:/_-]{0,3}`)
	}
	b.WriteString(`0*`)
	b.WriteString(regexp.QuoteMeta(id.Core))
	if stripChars != "" {
		b.WriteString(`[`)
		b.WriteString(regexp.QuoteMeta(stripChars))
		b.WriteString(`]*`)
	}
	b.WriteString(regexp.QuoteMeta(id.Suffix))

	re := regexp.MustCompile(b.String())
	searchPatternCache.Store(cacheKey, re)
	return re
}

// IsCCNoInText reports whether text contains a rendering of id, tolerant
// of separators between acronym/prefix/core and leading zeros on the
// core, and strip-chars immediately before the suffix.
func IsCCNoInText(text string, id model.CCNoId, stripChars string) bool {
	return buildCoreRegex(id, stripChars).MatchString(text)
}

// IsStringInText reports whether every whitespace-separated word of
// needle occurs somewhere in text as its own standalone, whole-word
// match (case-insensitive) — not necessarily contiguous or in order, so
// an extra string like "type strain" matches a page that mentions "type"
// and "strain" anywhere, not only back to back.
func IsStringInText(text, needle string) bool {
	words := strings.Fields(needle)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !isWholeWordInText(text, w) {
			return false
		}
	}
	return true
}

func isWholeWordInText(text, word string) bool {
	cacheKey := "word|" + word
	re, ok := searchPatternCache.Load(cacheKey)
	if !ok {
		pattern := `(?i)(^|[^A-Za-z0-9])` + regexp.QuoteMeta(word) + `($|[^A-Za-z0-9])`
		re = regexp.MustCompile(pattern)
		searchPatternCache.Store(cacheKey, re)
	}
	return re.(*regexp.Regexp).MatchString(text)
}

// VisibleText strips markup out of an HTML page body, dropping script and
// style elements, so the in-page search runs against what a human reader
// would actually see rather than against tag soup and embedded JS/CSS
// that can otherwise produce false designation matches. Falls back to the
// raw body unchanged if it does not parse as HTML.
func VisibleText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}

// CondenseMatch builds the compact "found" marker the worker writes into
// the HTTP cache after a content hit, so a later cache hit can be proven
// with a plain substring scan instead of re-running the full in-page
// search over the stored raw HTML.
func CondenseMatch(id model.CCNoId, extra []string) string {
	var b strings.Builder
	b.WriteString("|")
	b.WriteString(strings.ToUpper(id.Acr))
	b.WriteString(":")
	b.WriteString(strings.ToUpper(id.Prefix))
	b.WriteString(":")
	b.WriteString(strings.ToUpper(id.Core))
	b.WriteString(":")
	b.WriteString(strings.ToUpper(id.Suffix))
	b.WriteString("|")
	for _, e := range extra {
		b.WriteString(" - |")
		b.WriteString(strings.ToUpper(e))
		b.WriteString("|")
	}
	return b.String()
}

// MatchesCondensed reports whether condensed (a value previously written
// by CondenseMatch, or empty for a recorded miss) already proves id and
// every extra string.
func MatchesCondensed(condensed string, id model.CCNoId, extra []string) bool {
	if condensed == "" {
		return false
	}
	idMarker := "|" + strings.ToUpper(id.Acr) + ":" + strings.ToUpper(id.Prefix) + ":" + strings.ToUpper(id.Core) + ":" + strings.ToUpper(id.Suffix) + "|"
	if !strings.Contains(condensed, idMarker) {
		return false
	}
	for _, e := range extra {
		if !strings.Contains(condensed, "|"+strings.ToUpper(e)+"|") {
			return false
		}
	}
	return true
}

// FindElementsInContent reports whether text satisfies the whole search
// request: the catalogue number itself, plus every required extra
// string, all present somewhere in the page.
func FindElementsInContent(text string, id model.CCNoId, stripChars string, extra []string) bool {
	if !IsCCNoInText(text, id, stripChars) {
		return false
	}
	for _, e := range extra {
		if !IsStringInText(text, e) {
			return false
		}
	}
	return true
}
