// Package taxon implements free-text species-name extraction, the other
// leaf consumer of the radix package alongside the designation parser.
package taxon

import (
	"github.com/bits-and-blooms/bloom/v3"

	"saimgo/internal/radix"
)

// Name is a single taxon found in text, together with its byte offsets.
type Name struct {
	Binomial string
	Start    int
	End      int
}

// Index is a radix tree over a known-taxa list (genus+species binomials,
// upper-cased) built once per catalogue load.
type Index struct {
	tree *radix.Tree[string]
}

// BuildIndex constructs an Index from a flat list of binomial names.
func BuildIndex(binomials []string) *Index {
	tr := radix.New[string]()
	for _, name := range binomials {
		tr.Insert(upper(name), name)
	}
	tr.Compact()
	return &Index{tree: tr}
}

// ExtractFromText scans text for any binomial in idx, returning every hit
// left to right; the same radix-scan routine the designation parser uses,
// applied to a taxon-name alphabet instead of BRC acronyms.
func ExtractFromText(idx *Index, text string) []Name {
	var out []Name
	hits := idx.tree.ScanInText(upper(text))
	for _, hit := range hits {
		for _, v := range hit.Values {
			out = append(out, Name{Binomial: v, Start: hit.Start, End: hit.End})
		}
	}
	return out
}

// ExtractUniqueBinomials scans a batch of pages (e.g. a catalogue entry's
// homepage plus every fallback link fetched for it) and returns each
// distinct binomial found across all of them, in first-seen order. A
// bloom filter guards the exact membership set so that a page batch with
// many repeated mentions of the same common species doesn't force a full
// string compare against every prior hit.
func ExtractUniqueBinomials(idx *Index, pages []string) []string {
	filter := bloom.NewWithEstimates(1024, 0.01)
	seen := make(map[string]bool)
	var out []string

	for _, text := range pages {
		for _, hit := range ExtractFromText(idx, text) {
			key := []byte(hit.Binomial)
			if filter.Test(key) && seen[hit.Binomial] {
				continue
			}
			filter.Add(key)
			if seen[hit.Binomial] {
				continue
			}
			seen[hit.Binomial] = true
			out = append(out, hit.Binomial)
		}
	}
	return out
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
