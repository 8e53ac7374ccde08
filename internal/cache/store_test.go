package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saimgo/internal/model"
)

func TestStorePutThenGet(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, model.CacheCatalogue, 10)
	require.NoError(t, err)

	resp := model.CachedPageResp{StatusCode: 200, Body: "hello"}
	require.NoError(t, store.Put("key1", resp, 30))

	got, ok := store.Get("key1")
	require.True(t, ok)
	assert.Equal(t, resp, got)
}

func TestStoreMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, model.CacheHomepage, 10)
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, model.CacheCatalogueD, 10)
	require.NoError(t, err)
	require.NoError(t, store.Put("key1", model.CachedPageResp{StatusCode: 200, Body: "x"}, 1))

	reopened, err := Open(dir, model.CacheCatalogueD, 10)
	require.NoError(t, err)
	got, ok := reopened.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "x", got.Body)
}

func TestTaskKeyDiffersByExtras(t *testing.T) {
	id := model.CCNoId{Acr: "DSM", Core: "1"}
	k1 := TaskKey("https://x.test/page", model.CacheCatalogue, id, []string{"a"})
	k2 := TaskKey("https://x.test/page", model.CacheCatalogue, id, []string{"b"})
	assert.NotEqual(t, k1, k2)
}

func TestTaskKeyIgnoresExtrasForHomepage(t *testing.T) {
	id := model.CCNoId{Acr: "DSM", Core: "1"}
	k1 := TaskKey("https://x.test/", model.CacheHomepage, id, []string{"a"})
	k2 := TaskKey("https://x.test/", model.CacheHomepage, id, []string{"b"})
	assert.Equal(t, k1, k2)
}
