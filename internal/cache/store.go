// Package cache implements the persistent, per-class HTTP response cache
// (HA) plus its headless-browser fallback adapter. Each cache class
// (homepage / catalogue / catalogue_detailed) is backed by its own
// gob-encoded bucket file, written with the same atomic
// write-temp-then-rename technique the teacher crawler uses for its
// robots.txt cache file.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"
	"time"

	derr "saimgo/internal/errors"
	"saimgo/internal/model"
)

type entry struct {
	Resp      model.CachedPageResp
	ExpiresAt time.Time
}

// Store is one TTL-expiring, size-capped cache bucket, keyed by an
// opaque string key (the verifier worker supplies SHA-256 task keys).
type Store struct {
	path    string
	maxSize int64 // bytes

	mu      sync.Mutex
	entries map[string]entry
}

// Open loads (or creates) the bucket file for class under workDir, named
// "verify_ccno_<class>.sqlite" to preserve the on-disk layout contract
// even though the backing format here is a gob-encoded bucket rather than
// literal SQLite.
func Open(workDir string, class model.CacheClass, maxSizeGB int) (*Store, error) {
	path := filepath.Join(workDir, "verify_ccno_"+string(class)+".sqlite")
	s := &Store{
		path:    path,
		maxSize: int64(maxSizeGB) * 1000 * 1000 * 1000,
		entries: make(map[string]entry),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, derr.NewSessionCreationError("cache open "+path, err)
	}
	return s, nil
}

func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	var stored map[string]entry
	if err := dec.Decode(&stored); err != nil {
		return nil // corrupt or empty file: start fresh rather than fail the run
	}
	s.entries = stored
	return nil
}

// persist atomically rewrites the bucket file, matching the teacher
// crawler's temp-file-then-rename pattern for the robots cache file.
func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := gob.NewEncoder(f)
	if err := enc.Encode(s.entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Get returns the cached response for key if present and not expired.
func (s *Store) Get(key string) (model.CachedPageResp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || time.Now().After(e.ExpiresAt) {
		return model.CachedPageResp{}, false
	}
	return e.Resp, true
}

// Put stores resp under key with the given TTL (in days), then, only if
// the bucket is over its size budget, prunes expired entries (and clears
// it entirely if it is still oversized) before persisting to disk.
func (s *Store) Put(key string, resp model.CachedPageResp, ttlDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{Resp: resp, ExpiresAt: time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour)}
	s.clean()
	return s.persist()
}

// clean mirrors the original _clean_cache: if the bucket is over its size
// budget, purge expired entries first; if that alone doesn't bring it
// back under budget, clear the whole bucket.
func (s *Store) clean() {
	if s.maxSize <= 0 || s.approxSize() <= s.maxSize {
		return
	}
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.ExpiresAt) {
			delete(s.entries, k)
		}
	}
	if s.approxSize() <= s.maxSize {
		return
	}
	s.entries = make(map[string]entry)
}

func (s *Store) approxSize() int64 {
	var total int64
	for _, e := range s.entries {
		total += int64(len(e.Resp.Body)) + 64
	}
	return total
}

// Close flushes any pending state; Store has no open file handle between
// calls so this is a no-op kept for interface symmetry with the browser
// adapter's Close.
func (s *Store) Close() error { return nil }
