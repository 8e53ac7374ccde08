package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saimgo/internal/designation"
	"saimgo/internal/model"
)

func testCatalogue() (*model.BrcCatalogue, []model.AcrDbEntry) {
	entries := []model.AcrDbEntry{{Acr: "DSM", BrcID: 1, CoreRegex: `\d+`}}
	catalogue := &model.BrcCatalogue{Entries: map[int]model.BrcEntry{
		1: {
			BrcID:         1,
			Acr:           "DSM",
			CatalogueLink: "https://dsmz.test/catalogue/%s",
			HomepageLink:  "https://dsmz.test/",
		},
	}}
	return catalogue, entries
}

func TestCreateTaskPackageOrdersCatalogueThenHomepage(t *testing.T) {
	catalogue, entries := testCatalogue()
	manager := designation.NewManager("1", entries)
	gen := NewGenerator(catalogue, manager)

	pkg, err := gen.CreateTaskPackage(model.SearchRequest{TaskID: 1, BrcID: 1, FindCCNo: "DSM 42"})
	require.NoError(t, err)
	require.Len(t, pkg.Tasks, 1)
	urls := pkg.Tasks[0].URLs
	require.Len(t, urls, 2)
	assert.Equal(t, model.LevelCatalogue, urls[0].Level)
	assert.Equal(t, "https://dsmz.test/catalogue/42", urls[0].URL)
	assert.Equal(t, model.LevelHomepage, urls[1].Level)
}

func TestCreateTaskPackageUsesDetailedCacheWhenExtrasPresent(t *testing.T) {
	catalogue, entries := testCatalogue()
	manager := designation.NewManager("1", entries)
	gen := NewGenerator(catalogue, manager)

	pkg, err := gen.CreateTaskPackage(model.SearchRequest{TaskID: 1, BrcID: 1, FindCCNo: "DSM 42", FindExtra: []string{"soil"}})
	require.NoError(t, err)
	assert.Equal(t, model.CacheCatalogueD, pkg.Tasks[0].URLs[0].Class)
}

func TestCreateTaskPackageFailsForUnknownBrc(t *testing.T) {
	catalogue, entries := testCatalogue()
	manager := designation.NewManager("1", entries)
	gen := NewGenerator(catalogue, manager)

	_, err := gen.CreateTaskPackage(model.SearchRequest{TaskID: 1, BrcID: 99, FindCCNo: "DSM 42"})
	assert.Error(t, err)
}

func TestCreateTaskPackagesCollectsFailuresSeparately(t *testing.T) {
	catalogue, entries := testCatalogue()
	manager := designation.NewManager("1", entries)
	gen := NewGenerator(catalogue, manager)

	reqs := []model.SearchRequest{
		{TaskID: 1, BrcID: 1, FindCCNo: "DSM 1"},
		{TaskID: 2, BrcID: 1, FindCCNo: "nonsense"},
	}
	packages, failures := gen.CreateTaskPackages(reqs)
	assert.Len(t, packages, 1)
	assert.Len(t, failures, 1)
	_, ok := failures[2]
	assert.True(t, ok)
}

func TestFlattenRoundRobinInterleavesHosts(t *testing.T) {
	packages := []model.TaskPackage{
		{Tasks: []model.SearchTask{
			{TaskID: 1, URLs: []model.TaskURL{{URL: "https://a.test/1"}}},
			{TaskID: 2, URLs: []model.TaskURL{{URL: "https://a.test/2"}}},
		}},
		{Tasks: []model.SearchTask{
			{TaskID: 3, URLs: []model.TaskURL{{URL: "https://b.test/1"}}},
		}},
	}
	flat := FlattenRoundRobin(packages)
	require.Len(t, flat, 3)
	assert.Equal(t, 1, flat[0].TaskID)
	assert.Equal(t, 3, flat[1].TaskID)
	assert.Equal(t, 2, flat[2].TaskID)
}
