package strain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saimgo/internal/designation"
	"saimgo/internal/model"
)

func dsmIndex() *designation.BrcIndex {
	return designation.BuildIndex([]model.AcrDbEntry{
		{Acr: "DSM", BrcID: 1},
		{Acr: "JCM", BrcID: 2},
	})
}

func TestResolveReturnsDirectHitWhenValid(t *testing.T) {
	cache := NewMatchCache()
	cache.AddDirectRelation("DSM:1", CultureCcnoEntry{CultureID: 9, StrainID: 42})

	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM"}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{Ccno: "DSM 1", BrcID: 1, Id: model.CCNoId{Acr: "DSM", Core: "1"}}
	res, err := r.Resolve(rec)
	require.NoError(t, err)
	assert.Equal(t, 42, res.StrainID)
	assert.Equal(t, 9, res.CultureID)
}

func TestResolveRejectsDirectHitOnDeprecatedBrc(t *testing.T) {
	cache := NewMatchCache()
	cache.AddDirectRelation("DSM:1", CultureCcnoEntry{CultureID: 9, StrainID: 42})

	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM", Deprecated: true}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{Ccno: "DSM 1", BrcID: 1, Id: model.CCNoId{Acr: "DSM", Core: "1"}}
	_, err := r.Resolve(rec)
	assert.Error(t, err)
}

func TestResolveRejectsDirectHitOnErroneousCulture(t *testing.T) {
	cache := NewMatchCache()
	cache.AddDirectRelation("DSM:1", CultureCcnoEntry{CultureID: 9, StrainID: 42})
	cache.MarkCultureErroneous(9)

	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM"}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{Ccno: "DSM 1", BrcID: 1, Id: model.CCNoId{Acr: "DSM", Core: "1"}}
	_, err := r.Resolve(rec)
	assert.Error(t, err)
}

func TestResolveFallsThroughToVotingOnRelationOverlap(t *testing.T) {
	cache := NewMatchCache()
	cache.AddSiID(77, 77)
	cache.AddRelationCcno("JCM:2", 77)
	cache.AddRelationCcno("JCM:2", 77)

	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM"}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{
		Ccno:     "DSM 1",
		BrcID:    1,
		Id:       model.CCNoId{Acr: "DSM", Core: "1"},
		Relation: []string{"JCM 2"},
	}
	res, err := r.Resolve(rec)
	require.NoError(t, err)
	assert.Equal(t, 77, res.StrainID)
}

func TestResolveReadsTransitiveSiIDRelationStrings(t *testing.T) {
	cache := NewMatchCache()
	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM"}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{
		Ccno:     "DSM 1",
		BrcID:    1,
		Id:       model.CCNoId{Acr: "DSM", Core: "1"},
		Relation: []string{"SI-ID 1234"},
	}
	res, err := r.Resolve(rec)
	require.NoError(t, err)
	assert.Equal(t, 1234, res.StrainID)
}

func TestResolveReturnsFallbackOnNoConsensus(t *testing.T) {
	cache := NewMatchCache()
	// Three vote sources disagreeing: the ccno's own relation vote picks 1,
	// the relation-overlap histogram picks 2, and two distinct SI-ID hints
	// (3 and 4) rule out a single-hint shortcut — nothing survives the
	// three-way intersection, so the resolver must report no consensus.
	cache.AddRelationCcno("DSM:1", 1)
	cache.AddRelationCcno("JCM:2", 2)

	catalog := map[int]model.BrcEntry{1: {BrcID: 1, Acr: "DSM"}}
	r := NewResolver(cache, dsmIndex(), catalog)

	rec := CultureRecord{
		Ccno:     "DSM 1",
		BrcID:    1,
		Id:       model.CCNoId{Acr: "DSM", Core: "1"},
		Relation: []string{"JCM 2", "SI-ID 3", "SI-ID 4"},
	}
	res, err := r.Resolve(rec)
	assert.Error(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, res.Fallbacks)
}

func TestUpdateCacheRecordsDirectRelationAndAppliesRelationDeltas(t *testing.T) {
	cache := NewMatchCache()
	index := dsmIndex()

	update := UpdateResults{
		SiID:         100,
		SiCu:         200,
		CultureKey:   "DSM:1",
		AddRelations: []string{"JCM 2"},
	}
	result := UpdateCache(cache, index, update)
	assert.True(t, result.Added)

	entry, ok := cache.DirectRelation("DSM:1")
	require.True(t, ok)
	assert.Equal(t, 100, entry.StrainID)
	assert.Equal(t, 200, entry.CultureID)

	hist := cache.RelationHistogram("JCM:2")
	assert.Equal(t, 1, hist[100])

	removal := UpdateResults{
		SiID:         100,
		SiCu:         200,
		CultureKey:   "DSM:1",
		DelRelations: []string{"JCM 2"},
	}
	result = UpdateCache(cache, index, removal)
	assert.True(t, result.Removed)
	hist = cache.RelationHistogram("JCM:2")
	_, present := hist[100]
	assert.False(t, present)
}

func TestUpdateCacheDedupsRelationsWithinOneUpdate(t *testing.T) {
	cache := NewMatchCache()
	index := dsmIndex()

	update := UpdateResults{
		SiID:         100,
		SiCu:         200,
		CultureKey:   "DSM:1",
		AddRelations: []string{"JCM 2", "JCM 2"},
	}
	UpdateCache(cache, index, update)

	hist := cache.RelationHistogram("JCM:2")
	assert.Equal(t, 1, hist[100], "the same relation string appearing twice in one update must not double-count")
}
