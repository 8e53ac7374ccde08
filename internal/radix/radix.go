// Package radix implements the compact prefix tree shared by the
// designation parser (acronym/BRC-code lookups) and the taxon-name
// extractor (free-text species-name scanning). Both callers build the
// tree the same way: insert one key per entry, then compact, collapsing
// non-branching chains into single edges.
package radix

import "strings"

// tokenSep is the set of runes the scanner treats as token boundaries,
// matching the original system's PATTERN_SEP character class.
const tokenSep = ",.:/ \t\n_-"

// sepCanon is the canonical separator every non-alphanumeric run in a key
// collapses to before the tree ever sees it, so "DSM-Z", "DSM Z" and
// "DSM_Z" are all the same key ("DSM:Z") and a synonym inserted with one
// spelling of punctuation/whitespace noise matches a query spelled with
// another, per the recognizer's punctuation/whitespace tolerance.
const sepCanon = ':'

// Tree is a generic radix (PATRICIA-style) tree. The zero value is not
// usable; call New.
type Tree[T any] struct {
	root *node[T]
}

// node's values is a set, not a single slot: two keys that land on the
// same node (either because two callers inserted the same literal key, or
// because normalization made two differently-punctuated keys collide)
// both survive instead of the second silently clobbering the first.
type node[T any] struct {
	edge     string
	children []*node[T]
	values   []T
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{root: &node[T]{}}
}

func (n *node[T]) childStartingWith(c byte) (*node[T], int) {
	for i, ch := range n.children {
		if len(ch.edge) > 0 && ch.edge[0] == c {
			return ch, i
		}
	}
	return nil, -1
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// normalizedKey is a key (or scanned substring) with every non-alnum run
// collapsed to a single sepCanon byte, plus the mapping needed to
// translate a position in the normalized form back to the original byte
// offset it came from.
type normalizedKey struct {
	text string
	offs []int // offs[i] = byte offset in the original string where text[i] begins
}

func normalizeWithOffsets(s string) normalizedKey {
	var b strings.Builder
	offs := make([]int, 0, len(s))
	inSep := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) {
			b.WriteByte(c)
			offs = append(offs, i)
			inSep = false
			continue
		}
		if !inSep {
			b.WriteByte(sepCanon)
			offs = append(offs, i)
			inSep = true
		}
	}
	return normalizedKey{text: b.String(), offs: offs}
}

// origEnd translates having consumed normLen bytes of the normalized form
// back into the original-string byte offset just past what was consumed.
func (nk normalizedKey) origEnd(normLen, origLen int) int {
	if normLen >= len(nk.offs) {
		return origLen
	}
	return nk.offs[normLen]
}

func normalizeKey(s string) string {
	return normalizeWithOffsets(s).text
}

// Insert adds key -> value under key's normalized form (every
// non-alphanumeric run collapsed to a canonical separator), accumulating
// into the set of values already stored there rather than overwriting.
// Keys are matched case-sensitively; callers normalize case (the
// designation parser upper-cases acronyms before inserting).
func (t *Tree[T]) Insert(key string, value T) {
	insert(t.root, normalizeKey(key), value)
}

func insert(n *node[T], key string, value T) {
	if key == "" {
		n.values = append(n.values, value)
		return
	}
	child, idx := n.childStartingWith(key[0])
	if child == nil {
		n.children = append(n.children, &node[T]{edge: key, values: []T{value}})
		return
	}
	cp := commonPrefixLen(child.edge, key)
	switch {
	case cp == len(child.edge) && cp == len(key):
		child.values = append(child.values, value)
	case cp == len(child.edge):
		insert(child, key[cp:], value)
	default:
		// split child.edge at cp, inserting a branch node in between
		split := &node[T]{edge: child.edge[:cp]}
		child.edge = child.edge[cp:]
		split.children = []*node[T]{child}
		if cp == len(key) {
			split.values = []T{value}
		} else {
			split.children = append(split.children, &node[T]{edge: key[cp:], values: []T{value}})
		}
		n.children[idx] = split
	}
}

// Compact merges any node that has no value of its own and exactly one
// child into that child, concatenating edge labels. Insert already keeps
// the tree in a splittable radix shape, so Compact mainly serves trees
// whose entries were loaded key-by-key from a dataset that leaves long
// non-branching chains (e.g. single-letter BRC prefixes sharing one
// longer acronym) — calling it after a bulk load is a no-op improvement
// in lookup depth, not a correctness requirement.
func (t *Tree[T]) Compact() {
	compactChildren(t.root)
}

func compactChildren(n *node[T]) {
	for i, child := range n.children {
		compactChildren(child)
		if len(child.values) == 0 && len(child.children) == 1 {
			grandchild := child.children[0]
			grandchild.edge = child.edge + grandchild.edge
			n.children[i] = grandchild
		}
	}
}

// FullMatch reports whether key (normalized) matches a value set stored
// under that exact key.
func (t *Tree[T]) FullMatch(key string) ([]T, bool) {
	key = normalizeKey(key)
	n := t.root
	for key != "" {
		child, _ := n.childStartingWith(key[0])
		if child == nil {
			return nil, false
		}
		cp := commonPrefixLen(child.edge, key)
		if cp != len(child.edge) {
			return nil, false
		}
		key = key[cp:]
		n = child
	}
	if len(n.values) > 0 {
		return n.values, true
	}
	return nil, false
}

// Match is one hit returned by PrefixMatches or ScanInText: the value set
// stored at that node plus how many bytes of the original (un-normalized)
// input it consumed.
type Match[T any] struct {
	Values []T
	Len    int
}

// PrefixMatches walks key from the start (normalizing it internally, so a
// query spelled with different punctuation/whitespace than the key it was
// inserted under still matches) and returns every value set found along
// the path, in increasing length order (shortest prefix first). The
// designation parser picks the longest of these to resolve ambiguous
// acronym families (e.g. "DSM" vs "DSMZ"). Len is reported in bytes of the
// original key argument, not the normalized form, so callers can slice
// the original string directly.
func (t *Tree[T]) PrefixMatches(key string) []Match[T] {
	nk := normalizeWithOffsets(key)
	var out []Match[T]
	n := t.root
	rest := nk.text
	consumed := 0
	for rest != "" {
		child, _ := n.childStartingWith(rest[0])
		if child == nil {
			break
		}
		cp := commonPrefixLen(child.edge, rest)
		if cp < len(child.edge) {
			break
		}
		consumed += cp
		rest = rest[cp:]
		n = child
		if len(n.values) > 0 {
			out = append(out, Match[T]{
				Values: append([]T(nil), n.values...),
				Len:    nk.origEnd(consumed, len(key)),
			})
		}
	}
	return out
}

// LongestPrefixMatch returns only the longest of PrefixMatches' hits.
func (t *Tree[T]) LongestPrefixMatch(key string) (Match[T], bool) {
	matches := t.PrefixMatches(key)
	if len(matches) == 0 {
		return Match[T]{}, false
	}
	return matches[len(matches)-1], true
}

// TextMatch is one hit produced by ScanInText: the matched value set plus
// the byte offsets into the original text it was found at.
type TextMatch[T any] struct {
	Values []T
	Start  int
	End    int
}

// ScanInText streams over text looking for any inserted key occurring as
// a separated token (bounded by tokenSep runes, the start/end of text, or
// an adjacent bracket), returning every match found left to right. This
// backs both the DP free-text CCNo scanner and the taxon-name extractor;
// both build their own Tree and call ScanInText identically.
func (t *Tree[T]) ScanInText(text string) []TextMatch[T] {
	var out []TextMatch[T]
	i := 0
	for i < len(text) {
		if !isBoundary(text, i) {
			i++
			continue
		}
		matches := t.PrefixMatches(text[i:])
		if len(matches) == 0 {
			i++
			continue
		}
		best := matches[len(matches)-1]
		end := i + best.Len
		if !isBoundary(text, end) {
			i++
			continue
		}
		out = append(out, TextMatch[T]{Values: best.Values, Start: i, End: end})
		i = end
	}
	return out
}

// isBoundary reports whether position p in text is a token boundary: the
// start/end of the string, a separator rune, or an adjacent bracket, per
// the original scanner's _is_clearly_sep heuristic.
func isBoundary(text string, p int) bool {
	if p <= 0 || p >= len(text) {
		return true
	}
	c := text[p-1]
	if strings.IndexByte(tokenSep, c) >= 0 || strings.IndexByte("()[]", c) >= 0 {
		return true
	}
	nc := text[p]
	if strings.IndexByte(tokenSep, nc) >= 0 || strings.IndexByte("()[]", nc) >= 0 {
		return true
	}
	return false
}
