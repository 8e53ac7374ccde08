package strain

import (
	"sort"

	"saimgo/internal/warn"
)

const (
	voteMajorityThreshold = 0.5 // top vote's share of total relation-overlap votes
	voteWarnThreshold     = 0.4 // top vote's share of parsed relation tokens ("voters")
)

// decideMostVotedRelated returns every id in hist with a positive vote
// count, sorted by count descending (ties broken by id ascending for
// determinism) — the full histogram, not a threshold-filtered subset.
// voters is the number of relation tokens that were successfully parsed
// into a CCNoDes; the 40%/50% checks below are warning-only annotations
// on the winner, never membership filters.
func decideMostVotedRelated(hist map[int]int, voters int) []int {
	var ids []int
	total := 0
	for id, c := range hist {
		if id <= 0 || c <= 0 {
			continue
		}
		ids = append(ids, id)
		total += c
	}
	sort.Slice(ids, func(i, j int) bool {
		if hist[ids[i]] != hist[ids[j]] {
			return hist[ids[i]] > hist[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) == 0 {
		return nil
	}

	top := hist[ids[0]]
	if voters > 0 && float64(top)/float64(voters) < voteWarnThreshold {
		warn.Printf("strain id %d vote count %d is below 40%% of the %d parsed relation tokens", ids[0], top, voters)
	}
	if total > 0 && float64(top)/float64(total) < voteMajorityThreshold {
		warn.Printf("strain id %d vote count %d is below 50%% of the %d total relation votes", ids[0], top, total)
	}
	return ids
}

// intersectNonEmpty intersects every non-empty set in sets, treating an
// empty set as "no opinion" rather than as the empty universe — a vote
// source that has nothing to say should not veto the others.
func intersectNonEmpty(sets ...[]int) []int {
	var nonEmpty [][]int
	for _, s := range sets {
		if len(s) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	present := make(map[int]int)
	for _, s := range nonEmpty {
		seen := make(map[int]bool)
		for _, id := range s {
			if seen[id] {
				continue
			}
			seen[id] = true
			present[id]++
		}
	}

	var out []int
	for id, count := range present {
		if count == len(nonEmpty) {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func createFallbackSet(exclude int, sets ...[]int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, s := range sets {
		for _, id := range s {
			if id <= 0 || id == exclude || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func containsInt(set []int, id int) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// VoteStrain decides the winning strain id for one ccno from its three
// vote sources: direct relation hits, the relation-overlap histogram
// (its top-voted ids are ccnoTop below), and the set of SI-ID hints
// transitively pointing at this ccno. It returns the winner (or -1 if
// undecided) and, when undecided, the fallback set of candidates a caller
// can still report. This is a direct port of the original's _vote_strain
// decision tree.
func VoteStrain(direct []int, relationOverlap map[int]int, voters int, siIDHints []int) (winner int, fallback []int) {
	ccnoTop := decideMostVotedRelated(relationOverlap, voters)
	dec := intersectNonEmpty(direct, ccnoTop, siIDHints)

	if len(dec) == 1 {
		return dec[0], nil
	}
	if len(siIDHints) == 1 {
		return siIDHints[0], nil
	}
	for _, id := range ccnoTop {
		if containsInt(dec, id) {
			return id, nil
		}
	}
	return -1, createFallbackSet(-1, direct, ccnoTop, siIDHints)
}
