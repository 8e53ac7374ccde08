package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesEntriesAndAcronymTable(t *testing.T) {
	path := writeCatalogue(t, `[
		{"brc_id": 1, "acr": "DSM", "synonyms": ["DSMZ"], "catalogue_link": "https://dsmz.test/%s", "homepage_link": "https://dsmz.test/"},
		{"brc_id": 2, "acr": "JCM", "core_regex": "\\d+"}
	]`)

	catalogue, acrEntries, err := Load(path)
	require.NoError(t, err)

	require.Len(t, catalogue.Entries, 2)
	assert.Equal(t, "https://dsmz.test/%s", catalogue.Entries[1].CatalogueLink)

	require.Len(t, acrEntries, 2)
	assert.Equal(t, []string{"DSMZ"}, acrEntries[0].Synonyms)
}

func TestLoadRejectsInvalidCoreRegex(t *testing.T) {
	path := writeCatalogue(t, `[{"brc_id": 1, "acr": "DSM", "core_regex": "("}]`)

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, _, err := Load("/nonexistent/catalogue.json")
	assert.Error(t, err)
}
