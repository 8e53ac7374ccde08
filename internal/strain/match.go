package strain

import (
	"regexp"
	"strconv"

	"saimgo/internal/designation"
	derr "saimgo/internal/errors"
	"saimgo/internal/model"
)

// patternSiIDRelation matches the transitive SI-ID relation strings a
// culture record's strain.relation list may carry, e.g. "SI-ID 42" or
// "SI-ID 42.3" (a dotted version suffix).
var patternSiIDRelation = regexp.MustCompile(`(?i)SI-ID\s*(\d+)(?:\.\d+)?`)

// Resolver is the match-cache resolver (MR): step 1 looks up a direct
// culture_ccno hit and validates it, step 2 falls through to the voting
// algorithm over relation overlap and SI-ID hints when no trusted direct
// hit exists.
type Resolver struct {
	cache   *MatchCache
	index   *designation.BrcIndex
	catalog map[int]model.BrcEntry
}

// NewResolver returns a Resolver reading cache for direct/relation votes,
// index for re-parsing a culture's declared relation strings into
// CCNoDes, and catalog for the deprecated-BRC validation in step 1.
func NewResolver(cache *MatchCache, index *designation.BrcIndex, catalog map[int]model.BrcEntry) *Resolver {
	return &Resolver{cache: cache, index: index, catalog: catalog}
}

// Resolve decomposes rec to a Resolution: a direct cache hit that passes
// validation short-circuits step 2 entirely, otherwise the three vote
// sources are combined by VoteStrain.
func (r *Resolver) Resolve(rec CultureRecord) (Resolution, error) {
	key := rec.CcnoKey()

	if entry, ok := r.cache.DirectRelation(key); ok {
		if err := r.validateDirectHit(rec, entry); err != nil {
			return Resolution{}, err
		}
		return Resolution{StrainID: entry.StrainID, CultureID: entry.CultureID}, nil
	}

	return r.voteMatch(rec, key)
}

// validateDirectHit implements step 1's validation: BRC not deprecated,
// culture not marked erroneous (by its own record or by the cache's
// erroneousCultureIds set), and no negative ids.
func (r *Resolver) validateDirectHit(rec CultureRecord, entry CultureCcnoEntry) error {
	if brc, ok := r.catalog[rec.BrcID]; ok && brc.Deprecated {
		return derr.NewConsistencyError(derr.ConInvalidBrc, "BRC "+brc.Acr+" is deprecated")
	}
	if rec.Erroneous {
		return derr.NewConsistencyError(derr.ConInvalidCulture, "culture record for "+rec.Ccno+" is marked erroneous")
	}
	if r.cache.IsCultureErroneous(entry.CultureID) {
		return derr.NewConsistencyError(derr.ConInvalidCulture, "culture id is in the erroneous set")
	}
	if entry.StrainID < 0 || entry.CultureID < 0 {
		return derr.NewConsistencyError(derr.ConCacheAccounting, "negative id recorded for "+rec.Ccno)
	}
	return nil
}

// voteMatch is step 2: collect the three vote sources and hand them to
// VoteStrain.
func (r *Resolver) voteMatch(rec CultureRecord, key string) (Resolution, error) {
	direct := idsWithVotes(r.cache.RelationHistogram(key))

	aggregate := make(map[int]int)
	voters := 0
	if r.index != nil {
		for _, relStr := range rec.Relation {
			for _, id := range designation.IdentifyAllValidCCNo(r.index, relStr) {
				voters++
				relKey := designation.Key(id)
				for sid, cnt := range r.cache.RelationHistogram(relKey) {
					aggregate[sid] += cnt
				}
				if entry, ok := r.cache.DirectRelation(relKey); ok && entry.StrainID > 0 {
					aggregate[r.asMain(entry.StrainID)]++
				}
			}
		}
	}

	var siIDHints []int
	for _, relStr := range rec.Relation {
		for _, m := range patternSiIDRelation.FindAllStringSubmatch(relStr, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			siIDHints = append(siIDHints, r.asMain(n))
		}
	}

	winner, fallback := VoteStrain(direct, aggregate, voters, siIDHints)
	if winner < 0 {
		return Resolution{StrainID: -1, CultureID: -1, Fallbacks: fallback},
			derr.NewStrainMatchError(-1, "no consensus strain id for "+key)
	}
	return Resolution{StrainID: winner, CultureID: -1, Fallbacks: fallback}, nil
}

func (r *Resolver) asMain(strainID int) int {
	if main, ok := r.cache.MainSiID(strainID); ok {
		return main
	}
	return strainID
}

func idsWithVotes(hist map[int]int) []int {
	var out []int
	for id, c := range hist {
		if c > 0 {
			out = append(out, id)
		}
	}
	return out
}

// UpdateCache folds an accepted UpdateResults batch into the cache (step
// 3): records the culture's direct relation, registers the strain id's
// main mapping, and adjusts relation-overlap votes for the added/removed
// relation strings. Relations are deduped within this single update by
// their resolved ccno key, matching the original's "within one update"
// dedup rule.
func UpdateCache(cache *MatchCache, index *designation.BrcIndex, u UpdateResults) UpdateResult {
	_, already := cache.DirectRelation(u.CultureKey)
	cache.AddSiID(u.SiID, u.SiID)
	cache.AddDirectRelation(u.CultureKey, CultureCcnoEntry{CultureID: u.SiCu, StrainID: u.SiID})

	seen := make(map[string]bool)
	for _, relStr := range dedupRelations(index, u.AddRelations, seen) {
		cache.AddRelationCcno(relStr, u.SiID)
	}
	seen = make(map[string]bool)
	removed := false
	for _, relStr := range dedupRelations(index, u.DelRelations, seen) {
		cache.DeleteRelationCcno(relStr, u.SiID)
		removed = true
	}

	return UpdateResult{CcnoKey: u.CultureKey, Added: !already, Removed: removed}
}

func dedupRelations(index *designation.BrcIndex, relations []string, seen map[string]bool) []string {
	var out []string
	if index == nil {
		return out
	}
	for _, relStr := range relations {
		for _, id := range designation.IdentifyAllValidCCNo(index, relStr) {
			key := designation.Key(id)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
