package designation

import (
	"sync"
	"time"

	"saimgo/internal/model"
)

const (
	cacheStaleAfter = 24 * time.Hour
	cacheMaxEntries = 4096
)

// Manager is an explicit, caller-owned handle wrapping a BrcIndex with two
// lazily-filled, time-expiring result caches (single-decomposition and
// all-valid-decomposition lookups). The original implementation kept this
// as a process-wide singleton; callers here construct and pass their own
// Manager so tests and concurrent pipelines never share hidden state.
type Manager struct {
	version string
	index   *BrcIndex

	mu        sync.Mutex
	builtAt   time.Time
	single    map[string]model.CCNoId
	allValid  map[string][]model.CCNoId
}

// NewManager builds a Manager over entries, tagged with version. The
// version is stored but not read; cache expiry depends on
// cacheStaleAfter alone.
func NewManager(version string, entries []model.AcrDbEntry) *Manager {
	return &Manager{
		version:  version,
		index:    BuildIndex(entries),
		builtAt:  time.Now(),
		single:   make(map[string]model.CCNoId),
		allValid: make(map[string][]model.CCNoId),
	}
}

// verifyFresh drops both caches if they have outlived cacheStaleAfter,
// mirroring the original's per-call staleness check.
func (m *Manager) verifyFresh() {
	if time.Since(m.builtAt) <= cacheStaleAfter {
		return
	}
	m.single = make(map[string]model.CCNoId)
	m.allValid = make(map[string][]model.CCNoId)
	m.builtAt = time.Now()
}

// checkLimitString (and checkLimitSlice below) evicts an arbitrary entry (Go map iteration order, same as
// the original's next(iter(dict)) eviction) once a cache grows past
// cacheMaxEntries, bounding memory on very large batch runs without the
// bookkeeping cost of real LRU.
func checkLimitString(cache map[string]model.CCNoId) {
	if len(cache) < cacheMaxEntries {
		return
	}
	for k := range cache {
		delete(cache, k)
		break
	}
}

func checkLimitSlice(cache map[string][]model.CCNoId) {
	if len(cache) < cacheMaxEntries {
		return
	}
	for k := range cache {
		delete(cache, k)
		break
	}
}

// IdentifyCCNo resolves raw to a single decomposed id, caching by raw
// input.
func (m *Manager) IdentifyCCNo(raw string) (model.CCNoId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyFresh()

	if cached, ok := m.single[raw]; ok {
		return cached, nil
	}
	id, err := IdentifyCCNo(m.index, raw)
	if err != nil {
		return model.CCNoId{}, err
	}
	checkLimitString(m.single)
	m.single[raw] = id
	return id, nil
}

// IdentifyAllValidCCNo resolves raw to every valid decomposition, caching
// by raw input.
func (m *Manager) IdentifyAllValidCCNo(raw string) []model.CCNoId {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyFresh()

	if cached, ok := m.allValid[raw]; ok {
		return cached
	}
	ids := IdentifyAllValidCCNo(m.index, raw)
	checkLimitSlice(m.allValid)
	m.allValid[raw] = ids
	return ids
}

// Index exposes the underlying BrcIndex for callers that need direct
// ExtractFromText access (free-text scanning bypasses the per-raw-string
// cache since inputs are rarely repeated).
func (m *Manager) Index() *BrcIndex {
	return m.index
}
