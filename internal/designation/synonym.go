package designation

import (
	"regexp"

	"saimgo/internal/model"
)

var patternSynEq = regexp.MustCompile(`^([A-Za-z]{0,4})(\d+(?:\D\d+)*)([A-Za-z]{0,3})$`)

// GetSynEqStruct decomposes a bare prefix/core/suffix triple out of a
// synonym-equivalence string without requiring a known acronym match,
// used by history/synonym reconciliation when a deposit record references
// an equivalent strain by an unregistered or foreign designation.
func GetSynEqStruct(raw string) (model.CCNoId, bool) {
	cleaned := CleanDesignation(raw)
	m := patternSynEq.FindStringSubmatch(cleaned)
	if m == nil {
		return model.CCNoId{}, false
	}
	return model.CCNoId{Prefix: m[1], Core: m[2], Suffix: m[3]}, true
}
