package strain

import (
	"fmt"
	"sync"

	derr "saimgo/internal/errors"
	"saimgo/internal/warn"
)

// MatchCache holds every vote source the resolver reads: a direct
// ccno-to-(culture,strain) relation table, a per-ccno histogram of main
// strain ids seen via relation overlap, the strain-id-to-main-id mapping,
// and the set of culture ids known to carry a data error. Grounded on the
// original strain_matching/manager.py MatchCache.
type MatchCache struct {
	mu sync.Mutex

	cultureCcno         map[string]CultureCcnoEntry // ccno key -> (cultureId, strainId)
	relationCcno        map[string]map[int]int      // ccno key -> {main strain id -> vote count}
	siID                map[int]int                 // strain id -> main strain id
	erroneousCultureIds map[int]bool

	underflowed []string // ccnoKey/strainID underflow events pending a CheckConsistency report
}

// NewMatchCache returns an empty cache.
func NewMatchCache() *MatchCache {
	return &MatchCache{
		cultureCcno:         make(map[string]CultureCcnoEntry),
		relationCcno:        make(map[string]map[int]int),
		siID:                make(map[int]int),
		erroneousCultureIds: make(map[int]bool),
	}
}

// AddDirectRelation records ccnoKey as belonging directly to entry.
func (c *MatchCache) AddDirectRelation(ccnoKey string, entry CultureCcnoEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cultureCcno[ccnoKey] = entry
}

// DirectRelation returns the (culture, strain) pair directly recorded for
// ccnoKey, if any.
func (c *MatchCache) DirectRelation(ccnoKey string) (CultureCcnoEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cultureCcno[ccnoKey]
	return entry, ok
}

// MarkCultureErroneous records cultureID as known-bad, matching the
// original's erroneousCultureIds set.
func (c *MatchCache) MarkCultureErroneous(cultureID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.erroneousCultureIds[cultureID] = true
}

// IsCultureErroneous reports whether cultureID has been flagged.
func (c *MatchCache) IsCultureErroneous(cultureID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.erroneousCultureIds[cultureID]
}

// AddRelationCcno increments ccnoKey's vote for mainStrainID, used when a
// sibling strain's relation table mentions this ccno without it being the
// sibling's own direct match.
func (c *MatchCache) AddRelationCcno(ccnoKey string, mainStrainID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hist, ok := c.relationCcno[ccnoKey]
	if !ok {
		hist = make(map[int]int)
		c.relationCcno[ccnoKey] = hist
	}
	hist[mainStrainID]++
}

// DeleteRelationCcno decrements ccnoKey's vote for mainStrainID. An
// underflow (deleting a vote that was never added) is logged immediately
// and also recorded so the very next CheckConsistency call fails hard
// with a ConsistencyError — the cache keeps serving reads in the
// meantime, but consistency checking will not silently pass once it has
// happened.
func (c *MatchCache) DeleteRelationCcno(ccnoKey string, mainStrainID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hist, ok := c.relationCcno[ccnoKey]
	if !ok {
		warn.Printf("deleting relation vote for %q/%d with no histogram present", ccnoKey, mainStrainID)
		c.underflowed = append(c.underflowed, fmt.Sprintf("%s/%d", ccnoKey, mainStrainID))
		return
	}
	if hist[mainStrainID] <= 0 {
		warn.Printf("relation vote underflow for %q/%d", ccnoKey, mainStrainID)
		hist[mainStrainID] = 0
		c.underflowed = append(c.underflowed, fmt.Sprintf("%s/%d", ccnoKey, mainStrainID))
		return
	}
	hist[mainStrainID]--
	if hist[mainStrainID] == 0 {
		delete(hist, mainStrainID)
	}
}

// RelationHistogram returns a copy of ccnoKey's vote histogram.
func (c *MatchCache) RelationHistogram(ccnoKey string) map[int]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]int, len(c.relationCcno[ccnoKey]))
	for k, v := range c.relationCcno[ccnoKey] {
		out[k] = v
	}
	return out
}

// AddSiID records that strainID's main identity is mainID — idempotent if
// it agrees with what is already recorded, but warns if it would change
// an existing main mapping, since that usually signals two merges
// disagreeing about which strain is canonical.
func (c *MatchCache) AddSiID(strainID, mainID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.siID[strainID]; ok && existing != mainID {
		warn.Printf("SI-ID %d main mapping changing from %d to %d", strainID, existing, mainID)
	}
	c.siID[strainID] = mainID
}

// MainSiID returns the main strain id strainID has been mapped to, if any.
func (c *MatchCache) MainSiID(strainID int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.siID[strainID]
	return id, ok
}

// CheckConsistency scans the cache for the two classes of corruption the
// original system guarded against: a negative (sentinel "undecided") id
// leaking into the direct-relation or main-id tables, and a relation
// histogram entry keyed by a non-main strain id (one whose si_id mapping
// points somewhere else, or that was never registered at all).
func (c *MatchCache) CheckConsistency() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.underflowed) > 0 {
		first := c.underflowed[0]
		return derr.NewConsistencyError(derr.ConCacheAccounting, "relation vote count underflowed for "+first)
	}

	for key, entry := range c.cultureCcno {
		if entry.StrainID < 0 || entry.CultureID < 0 {
			return derr.NewConsistencyError(derr.ConCacheAccounting, "negative id leaked into direct relation cache for "+key)
		}
	}
	for id, main := range c.siID {
		if id < 0 || main < 0 {
			return derr.NewConsistencyError(derr.ConCacheAccounting, fmt.Sprintf("negative id leaked into main-id cache for %d", id))
		}
	}
	for key, hist := range c.relationCcno {
		for id := range hist {
			main, ok := c.siID[id]
			if !ok || main != id {
				return derr.NewConsistencyError(derr.ConCacheAccounting, "relation vote for "+key+" references a non-main strain id")
			}
		}
	}
	return nil
}
