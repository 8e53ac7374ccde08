package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"saimgo/internal/model"
)

// TaskKey builds the cache key for one URL fetch: for homepage requests
// it's just the URL; for catalogue/detailed requests it mixes in the
// decomposed id and sorted extras, each upper-cased before hashing so two
// tasks differing only in case never collide, grounded on the original's
// _create_custom_key.
func TaskKey(url string, class model.CacheClass, id model.CCNoId, extra []string) string {
	h := sha256.New()
	h.Write([]byte(url))
	if class != model.CacheHomepage {
		h.Write([]byte("|"))
		h.Write([]byte(strings.ToUpper(id.Acr)))
		h.Write([]byte(":"))
		h.Write([]byte(strings.ToUpper(id.Prefix)))
		h.Write([]byte(strings.ToUpper(id.Core)))
		h.Write([]byte(strings.ToUpper(id.Suffix)))
		sorted := make([]string, len(extra))
		for i, e := range extra {
			sorted[i] = strings.ToUpper(e)
		}
		sort.Strings(sorted)
		h.Write([]byte("|"))
		h.Write([]byte(strings.Join(sorted, ",")))
	}
	return hex.EncodeToString(h.Sum(nil))
}
