package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saimgo/internal/cache"
	"saimgo/internal/model"
	"saimgo/internal/polite"
)

type stubFetcher struct {
	resp model.CachedPageResp
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context, rawURL string) (model.CachedPageResp, error) {
	return s.resp, s.err
}

func TestVerifyTaskNoURLsReturnsNoURLStatus(t *testing.T) {
	result := VerifyTask(context.Background(), model.SearchTask{TaskID: 1}, nil, nil, nil, nil, Settings{})
	require.Len(t, result.Status, 1)
	assert.Equal(t, model.StatusNoURL, result.Status[0].Status)
	assert.Empty(t, result.Link)
}

func TestVerifyTaskMatchesOnFirstURL(t *testing.T) {
	task := model.SearchTask{
		TaskID: 2,
		Id:     model.CCNoId{Acr: "DSM", Core: "7"},
		URLs: []model.TaskURL{
			{Level: model.LevelCatalogue, URL: "https://example.org/strain/7", Class: model.CacheCatalogue, TTL: 30},
		},
	}
	fetcher := stubFetcher{resp: model.CachedPageResp{StatusCode: 200, Body: "DSM 7 info page"}}

	var stores map[model.CacheClass]*cache.Store
	result := VerifyTask(context.Background(), task, nil, stores, fetcher, nil, Settings{})
	require.Equal(t, "https://example.org/strain/7", result.Link)
	require.Len(t, result.Status, 1)
	assert.Equal(t, model.StatusOK, result.Status[0].Status)
}

func TestVerifyTaskFallsThroughOnMissingContent(t *testing.T) {
	task := model.SearchTask{
		TaskID: 3,
		Id:     model.CCNoId{Acr: "DSM", Core: "9"},
		URLs: []model.TaskURL{
			{Level: model.LevelCatalogue, URL: "https://example.org/strain/9", Class: model.CacheCatalogue, TTL: 30},
			{Level: model.LevelHomepage, URL: "https://example.org/", Class: model.CacheHomepage, TTL: 60},
		},
	}
	fetcher := stubFetcher{resp: model.CachedPageResp{StatusCode: 200, Body: "nothing relevant here"}}

	var stores map[model.CacheClass]*cache.Store
	result := VerifyTask(context.Background(), task, nil, stores, fetcher, nil, Settings{})
	assert.Empty(t, result.Link)
	require.Len(t, result.Status, 2)
	assert.Equal(t, model.StatusMissing, result.Status[0].Status)
	assert.Equal(t, model.StatusMissing, result.Status[1].Status)
}

func TestVerifyTaskResolvesAGatePerURLHost(t *testing.T) {
	task := model.SearchTask{
		TaskID: 4,
		Id:     model.CCNoId{Acr: "DSM", Core: "1"},
		URLs: []model.TaskURL{
			{Level: model.LevelCatalogue, URL: "https://a.test/strain", Class: model.CacheCatalogue},
			{Level: model.LevelHomepage, URL: "https://b.test/", Class: model.CacheHomepage},
		},
	}
	fetcher := stubFetcher{resp: model.CachedPageResp{StatusCode: 200, Body: "nothing relevant here"}}

	var seenHosts []string
	gateFor := func(rawURL string) *HostGate {
		seenHosts = append(seenHosts, rawURL)
		return nil
	}

	var stores map[model.CacheClass]*cache.Store
	VerifyTask(context.Background(), task, gateFor, stores, fetcher, nil, Settings{})

	require.Len(t, seenHosts, 2, "each URL in the task must resolve its own gate, not one shared gate from the first URL")
	assert.Equal(t, "https://a.test/strain", seenHosts[0])
	assert.Equal(t, "https://b.test/", seenHosts[1])
}

func TestVerifyOneURLSkipsNetworkWhenCircuitBreakerTripped(t *testing.T) {
	cd := polite.NewCoolDown()
	require.NoError(t, cd.AwaitCoolDown(context.Background(), 0))
	cd.FinishedRequest(true, 1)
	cd.FinishedRequest(true, 1)
	cd.FinishedRequest(true, 1)
	require.True(t, cd.SkipRequest())

	gate := &HostGate{CoolDown: cd}
	task := model.SearchTask{
		TaskID: 5,
		Id:     model.CCNoId{Acr: "DSM", Core: "1"},
		URLs: []model.TaskURL{
			{Level: model.LevelCatalogue, URL: "https://tripped.test/strain", Class: model.CacheCatalogue},
		},
	}
	var fetchCalled bool
	fetcher := fetchFunc(func(ctx context.Context, rawURL string) (model.CachedPageResp, error) {
		fetchCalled = true
		return model.CachedPageResp{StatusCode: 200, Body: "DSM 1"}, nil
	})

	var stores map[model.CacheClass]*cache.Store
	result := VerifyTask(context.Background(), task, func(string) *HostGate { return gate }, stores, fetcher, nil, Settings{})

	require.Len(t, result.Status, 1)
	assert.Equal(t, model.StatusProhibited, result.Status[0].Status)
	assert.False(t, fetchCalled, "a tripped circuit breaker must short-circuit before any network attempt")
}

type fetchFunc func(ctx context.Context, rawURL string) (model.CachedPageResp, error)

func (f fetchFunc) Fetch(ctx context.Context, rawURL string) (model.CachedPageResp, error) {
	return f(ctx, rawURL)
}

func TestVerifyTaskWritesCondensedMarkerAndReadsItBackOnCacheHit(t *testing.T) {
	store, err := cache.Open(t.TempDir(), model.CacheCatalogue, 1)
	require.NoError(t, err)
	stores := map[model.CacheClass]*cache.Store{model.CacheCatalogue: store}

	task := model.SearchTask{
		TaskID: 6,
		Id:     model.CCNoId{Acr: "DSM", Core: "1"},
		Extra:  []string{"soil"},
		URLs: []model.TaskURL{
			{Level: model.LevelCatalogue, URL: "https://example.org/strain/1", Class: model.CacheCatalogue, TTL: 30},
		},
	}
	fetcher := stubFetcher{resp: model.CachedPageResp{StatusCode: 200, Body: "DSM 1, isolated from soil"}}

	first := VerifyTask(context.Background(), task, nil, stores, fetcher, nil, Settings{})
	require.Len(t, first.Status, 1)
	assert.Equal(t, model.StatusOK, first.Status[0].Status)

	key := cache.TaskKey(task.URLs[0].URL, model.CacheCatalogue, task.Id, task.Extra)
	cached, ok := store.Get(key)
	require.True(t, ok)
	assert.NotContains(t, cached.Body, "<", "the stored body must be the condensed marker, not raw HTML")
	assert.True(t, MatchesCondensed(cached.Body, task.Id, task.Extra))

	// A second run must be served entirely from the condensed cache entry,
	// without calling the fetcher again.
	var refetched bool
	guard := fetchFunc(func(ctx context.Context, rawURL string) (model.CachedPageResp, error) {
		refetched = true
		return model.CachedPageResp{}, nil
	})
	second := VerifyTask(context.Background(), task, nil, stores, guard, nil, Settings{})
	assert.Equal(t, model.StatusOK, second.Status[0].Status)
	assert.False(t, refetched, "a condensed cache hit must short-circuit before any fetch")
}
