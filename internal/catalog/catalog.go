// Package catalog loads the BRC catalogue and known-acronym table that
// the designation parser and link generator are built over.
package catalog

import (
	"encoding/json"
	"os"

	derr "saimgo/internal/errors"
	"saimgo/internal/model"
)

// brcRow is the on-disk JSON shape of one catalogue entry.
type brcRow struct {
	BrcID         int      `json:"brc_id"`
	Acr           string   `json:"acr"`
	Synonyms      []string `json:"synonyms,omitempty"`
	FullRegex     string   `json:"full_regex,omitempty"`
	CoreRegex     string   `json:"core_regex,omitempty"`
	PrefixRegex   string   `json:"prefix_regex,omitempty"`
	SuffixRegex   string   `json:"suffix_regex,omitempty"`
	StripSufChars string   `json:"strip_suffix_chars,omitempty"`
	CatalogueLink string   `json:"catalogue_link,omitempty"`
	HomepageLink  string   `json:"homepage_link,omitempty"`
	DetailedLink  string   `json:"detailed_link,omitempty"`
	ExtraStrings  []string `json:"extra_strings,omitempty"`
	Deprecated    bool     `json:"deprecated,omitempty"`
}

// Load reads a JSON array of brcRow from path and returns both the
// catalogue (for link generation) and the flat acronym table (for the
// radix index), pre-validating that every entry's core regex compiles so
// a bad catalogue row is rejected at load time rather than at first use.
func Load(path string) (*model.BrcCatalogue, []model.AcrDbEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, derr.NewSessionCreationError("opening catalogue "+path, err)
	}
	defer f.Close()

	var rows []brcRow
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return nil, nil, derr.NewSessionCreationError("decoding catalogue "+path, err)
	}

	catalogue := &model.BrcCatalogue{Entries: make(map[int]model.BrcEntry, len(rows))}
	acrEntries := make([]model.AcrDbEntry, 0, len(rows))

	for _, row := range rows {
		for _, named := range []struct{ field, pattern string }{
			{"core_regex", row.CoreRegex},
			{"full_regex", row.FullRegex},
			{"prefix_regex", row.PrefixRegex},
			{"suffix_regex", row.SuffixRegex},
		} {
			if err := validateRegex(named.pattern); err != nil {
				return nil, nil, derr.NewValidationError(named.field, row.Acr+": "+err.Error())
			}
		}
		catalogue.Entries[row.BrcID] = model.BrcEntry{
			BrcID:         row.BrcID,
			Acr:           row.Acr,
			CatalogueLink: row.CatalogueLink,
			HomepageLink:  row.HomepageLink,
			DetailedLink:  row.DetailedLink,
			ExtraStrings:  row.ExtraStrings,
			StripSufChars: row.StripSufChars,
			Deprecated:    row.Deprecated,
		}
		acrEntries = append(acrEntries, model.AcrDbEntry{
			Acr:           row.Acr,
			BrcID:         row.BrcID,
			Synonyms:      row.Synonyms,
			FullRegex:     row.FullRegex,
			CoreRegex:     row.CoreRegex,
			PrefixRegex:   row.PrefixRegex,
			SuffixRegex:   row.SuffixRegex,
			StripSufChars: row.StripSufChars,
		})
	}
	return catalogue, acrEntries, nil
}

func validateRegex(pattern string) error {
	if pattern == "" {
		return nil
	}
	_, err := compileCheck(pattern)
	return err
}
