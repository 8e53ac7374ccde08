package designation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	derr "saimgo/internal/errors"
	"saimgo/internal/model"
	"saimgo/internal/radix"
)

// BrcIndex is the compiled lookup structure built once per catalogue load:
// a radix tree over every known acronym (and its synonyms), keyed
// upper-case, pointing back at the BRC entry that owns it.
type BrcIndex struct {
	Tree *radix.Tree[*model.AcrDbEntry]
}

// BuildIndex constructs a BrcIndex from the catalogue's acronym rows,
// inserting every acronym and declared synonym, then compacting the tree
// once the whole table is loaded.
func BuildIndex(entries []model.AcrDbEntry) *BrcIndex {
	tr := radix.New[*model.AcrDbEntry]()
	for i := range entries {
		e := &entries[i]
		tr.Insert(strings.ToUpper(e.Acr), e)
		for _, syn := range e.Synonyms {
			tr.Insert(strings.ToUpper(syn), e)
		}
	}
	tr.Compact()
	return &BrcIndex{Tree: tr}
}

func coreRegexFor(entry *model.AcrDbEntry) *regexp.Regexp {
	pattern := entry.CoreRegex
	if pattern == "" {
		pattern = `\d+(?:\D\d+)*`
	}
	return regexp.MustCompile(pattern)
}

// schemaRegexFor compiles entry's declared pre/suf-regex, returning nil
// when the BRC declared none — callers fall back to the generic
// length-heuristic validation in that case.
func schemaRegexFor(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}

// validatePrefix checks prefix against entry's declared pre-regex schema
// when the BRC has one, else against the generic "short decoration"
// heuristic.
func validatePrefix(entry *model.AcrDbEntry, prefix string) bool {
	if re := schemaRegexFor(entry.PrefixRegex); re != nil {
		return re.MatchString(prefix)
	}
	return isReasonablePrefix(prefix)
}

// validateSuffix checks suffix against entry's declared suf-regex schema
// when the BRC has one (a known "strip-me" character, e.g. the type-strain
// "T", is stripped first so it may still validate), else against the
// generic heuristic.
func validateSuffix(entry *model.AcrDbEntry, suffix string) bool {
	trimmed := suffix
	for len(trimmed) > 0 && containsByte(entry.StripSufChars, trimmed[0]) {
		trimmed = trimmed[1:]
	}
	if re := schemaRegexFor(entry.SuffixRegex); re != nil {
		return re.MatchString(trimmed)
	}
	return isReasonableSuffix(suffix, entry.StripSufChars)
}

// getIDParts splits rest (the cleaned designation text with the acronym
// already stripped) into prefix/core/suffix against entry's core regex,
// validating the leftover prefix/suffix against the BRC's declared
// pre/suf-regex schema, or the generic length heuristic when it declared
// none.
func getIDParts(entry *model.AcrDbEntry, rest string) (model.CCNoId, error) {
	re := coreRegexFor(entry)
	loc := re.FindStringIndex(rest)
	if loc == nil {
		return model.CCNoId{}, derr.NewDesignationError(rest, "no numeric core found")
	}
	prefix := rest[:loc[0]]
	core := rest[loc[0]:loc[1]]
	suffix := rest[loc[1]:]

	if !patternCoreID.MatchString(core) {
		return model.CCNoId{}, derr.NewDesignationError(rest, "core does not have the generic numeric-core shape")
	}
	if !validatePrefix(entry, prefix) {
		return model.CCNoId{}, derr.NewDesignationError(rest, "prefix does not match this BRC's id schema")
	}
	if !validateSuffix(entry, suffix) {
		return model.CCNoId{}, derr.NewDesignationError(rest, "suffix does not match this BRC's id schema")
	}
	return model.CCNoId{Acr: entry.Acr, Prefix: prefix, Core: core, Suffix: suffix}, nil
}

// splitAcrCore returns the text after the first acrLen bytes of cleaned,
// with leading separators trimmed. It does not look at the character that
// follows the acronym, so an acronym match that ends in a digit is split
// off as matched even when the next character is also a digit.
func splitAcrCore(cleaned string, acrLen int) string {
	rest := cleaned[acrLen:]
	rest = strings.TrimLeft(rest, " \t:./_-")
	return rest
}

// IdentifyCCNo attempts to decompose raw into a single CCNoId using the
// longest acronym prefix match found in index. Where more than one
// catalogue row shares that acronym (a homonym or a collapsed synonym),
// each candidate is tried in turn and the first that yields a valid
// numeric core wins. It returns a DesignationError if no acronym is
// recognized or none of the candidates can isolate a valid core.
func IdentifyCCNo(index *BrcIndex, raw string) (model.CCNoId, error) {
	cleaned := CleanDesignation(raw)
	upper := strings.ToUpper(cleaned)
	match, ok := index.Tree.LongestPrefixMatch(upper)
	if !ok {
		return model.CCNoId{}, derr.NewDesignationError(raw, "no known acronym prefix found")
	}
	rest := splitAcrCore(cleaned, match.Len)

	var lastErr error
	for _, entry := range match.Values {
		id, err := getIDParts(entry, rest)
		if err != nil {
			lastErr = err
			continue
		}
		id.Acr = entry.Acr
		return id, nil
	}
	if lastErr == nil {
		lastErr = derr.NewDesignationError(raw, "no valid numeric core found for matched acronym")
	}
	return model.CCNoId{}, lastErr
}

// IdentifyAllValidCCNo returns every valid decomposition of raw across all
// acronyms whose prefix matches, longest acronym first, matching the
// original parser's "sorted by -len(acr)" resolution order.
func IdentifyAllValidCCNo(index *BrcIndex, raw string) []model.CCNoId {
	cleaned := CleanDesignation(raw)
	upper := strings.ToUpper(cleaned)
	matches := index.Tree.PrefixMatches(upper)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Len > matches[j].Len
	})

	var out []model.CCNoId
	for _, m := range matches {
		rest := splitAcrCore(cleaned, m.Len)
		for _, entry := range m.Values {
			id, err := getIDParts(entry, rest)
			if err != nil {
				continue
			}
			id.Acr = entry.Acr
			out = append(out, id)
		}
	}
	return out
}

// ExtractFromText scans free text for embedded catalogue numbers, using
// the radix tree to find acronym tokens and then looking immediately to
// the right of each hit for a numeric core.
func ExtractFromText(index *BrcIndex, text string) []model.CCNoDes {
	var out []model.CCNoDes
	upper := strings.ToUpper(text)
	hits := index.Tree.ScanInText(upper)

	for _, hit := range hits {
		rest := text[hit.End:]
		rest = strings.TrimLeft(rest, " \t:./_-")
		loc := patternCoreIDText.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			continue
		}
		core := rest[loc[0]:loc[1]]
		for _, entry := range hit.Values {
			re := coreRegexFor(entry)
			if !re.MatchString(core) {
				continue
			}
			coreStart := strings.Index(text[hit.End:], core) + hit.End
			out = append(out, model.CCNoDes{
				Id: model.CCNoId{
					Acr:  entry.Acr,
					Core: core,
				},
				Raw:      text[hit.Start : coreStart+len(core)],
				StartOff: hit.Start,
				EndOff:   coreStart + len(core),
			})
		}
	}
	return out
}

// Key is the stable string identity of a decomposed id, used as a cache
// and match-cache key component.
func Key(id model.CCNoId) string {
	return fmt.Sprintf("%s:%s%s%s", id.Acr, id.Prefix, stripLeadingZeros(id.Core), id.Suffix)
}
