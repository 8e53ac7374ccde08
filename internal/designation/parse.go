// Package designation implements the catalogue-number parser: cleaning
// raw designation strings, splitting them into acronym/core/suffix parts
// against a known-acronym radix index, and scanning free text for
// embedded catalogue numbers.
package designation

import "regexp"

// Regex building blocks ported from the original parser's string-pattern
// module. PatternSep is the class of characters treated as word/number
// separators throughout designation cleaning and matching.
const PatternSep = `[,.:/\s_-]`

var (
	patternCoreID       = regexp.MustCompile(`^\d+(?:\D\d+)*$`)
	patternSingleWordCh = regexp.MustCompile(`^[A-Za-z0-9]$`)
	patternLeadZero     = regexp.MustCompile(`^0+`)
	patternCoreIDText   = regexp.MustCompile(`\d+(?:[.\-/_]\d+)*`)

	patternStrip = regexp.MustCompile(`^\s*(?:Strain|Voucher|Collection)\s*:\s*`)
	patternTrailT = regexp.MustCompile(`(?i)\s*T\s*$`)

	patternSiID = regexp.MustCompile(`(?i)SI-ID\s*(\d+)(?:\.(\d+))?`)
	patternSiCu = regexp.MustCompile(`(?i)SI-CU\s*(\d+)(?:\.(\d+))?`)
)

// CleanDesignation strips surrounding brackets/parens, a leading
// "Strain:"/"Voucher:"/"Collection:" label and a trailing type-strain "T"
// marker, returning the string a catalogue-number decomposition should be
// attempted against.
func CleanDesignation(raw string) string {
	s := raw
	for {
		trimmed := trimOneMatchingBracket(s)
		if trimmed == s {
			break
		}
		s = trimmed
	}
	s = patternStrip.ReplaceAllString(s, "")
	s = patternTrailT.ReplaceAllString(s, "")
	return trimSpace(s)
}

func trimOneMatchingBracket(s string) string {
	s2 := trimSpace(s)
	if len(s2) < 2 {
		return s
	}
	first, last := s2[0], s2[len(s2)-1]
	if (first == '(' && last == ')') || (first == '[' && last == ']') {
		return s2[1 : len(s2)-1]
	}
	return s
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// stripLeadingZeros removes leading zero digits from a numeric core,
// preserving at least one digit, used when comparing cores with differing
// zero-padding conventions across BRCs.
func stripLeadingZeros(core string) string {
	stripped := patternLeadZero.ReplaceAllString(core, "")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// isReasonablePrefix bounds how much leftover text either side of the
// numeric core can be absorbed into the acronym prefix/suffix before the
// match is rejected as implausible (a long alphabetic run is more likely
// an unrelated word than packaging around the catalogue number). A bare
// single word character (e.g. the "T" in "DSM123T") is always reasonable.
func isReasonablePrefix(s string) bool {
	if patternSingleWordCh.MatchString(s) {
		return true
	}
	return len(s) <= 4
}

func isReasonableSuffix(s string, stripChars string) bool {
	if patternSingleWordCh.MatchString(s) {
		return true
	}
	trimmed := s
	for len(trimmed) > 0 && containsByte(stripChars, trimmed[0]) {
		trimmed = trimmed[1:]
	}
	return len(trimmed) <= 3
}

func containsByte(set string, b byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return true
		}
	}
	return false
}

// SiRef is a parsed SI-ID or SI-CU strain/culture reference, as found
// embedded in deposit history or synonym-equivalence text.
type SiRef struct {
	ID  int
	Ver int
}

// GetSiID extracts an "SI-ID <n>[.<ver>]" reference from text, if present.
func GetSiID(text string) (SiRef, bool) {
	return matchSiRef(patternSiID, text)
}

// GetSiCu extracts an "SI-CU <n>[.<ver>]" reference from text, if present.
func GetSiCu(text string) (SiRef, bool) {
	return matchSiRef(patternSiCu, text)
}

func matchSiRef(re *regexp.Regexp, text string) (SiRef, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return SiRef{}, false
	}
	id := atoiSafe(m[1])
	ver := 0
	if m[2] != "" {
		ver = atoiSafe(m[2])
	}
	return SiRef{ID: id, Ver: ver}, true
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return n
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
