package cache

import (
	"context"
	"strings"
	"sync"

	"habitFlowClient/middleware"
)

// Key is a hierarchical cache key. Invalidating a key by prefix cascades to
// every key sharing that prefix, so key constructors must keep parent
// segments in front of child segments.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

func (k Key) hasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

func (k Key) family() string {
	if len(k) == 0 {
		return "unknown"
	}
	return k[0]
}

type entry struct {
	key   Key
	value any
	stale bool
}

type inflightEntry struct {
	id     uint64
	cancel context.CancelFunc
}

// Store is the single shared in-memory store of query results. Values are
// treated as immutable once stored: writers must build fresh records instead
// of mutating cached ones, otherwise snapshot/rollback exactness breaks.
//
// A Store is injected explicitly into every service; nothing in this module
// reaches for a package-level instance.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	inflight   map[string][]inflightEntry
	inflightID uint64
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]entry),
		inflight: make(map[string][]inflightEntry),
	}
}

// Get returns the cached value for key. Stale entries count as misses so a
// read-through caller refetches them.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key.String()]
	s.mu.RUnlock()

	if !ok || e.stale {
		middleware.CacheMissesTotal.WithLabelValues(key.family()).Inc()
		return nil, false
	}
	middleware.CacheHitsTotal.WithLabelValues(key.family()).Inc()
	return e.value, true
}

// GetAs is the typed read used by every transform; it centralizes the single
// type assertion per key family.
func GetAs[T any](s *Store, key Key) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value under key, clearing any stale mark.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = entry{key: key, value: value}
}

// Delete removes the entry for key.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key.String())
}

// Invalidate marks the given keys stale and cancels in-flight fetches for
// them. The value is kept until the next Set so snapshots taken before the
// invalidation still restore cleanly.
func (s *Store) Invalidate(keys ...Key) {
	s.CancelInflight(keys...)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if e, ok := s.entries[key.String()]; ok {
			e.stale = true
			s.entries[key.String()] = e
		}
	}
}

// InvalidatePrefix marks every key sharing prefix stale and cancels their
// in-flight fetches.
func (s *Store) InvalidatePrefix(prefix Key) {
	s.mu.Lock()
	var cancels []context.CancelFunc
	for ks, e := range s.entries {
		if e.key.hasPrefix(prefix) {
			e.stale = true
			s.entries[ks] = e
		}
	}
	for ks, list := range s.inflight {
		if Key(strings.Split(ks, "/")).hasPrefix(prefix) {
			for _, f := range list {
				cancels = append(cancels, f.cancel)
			}
			delete(s.inflight, ks)
		}
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Purge drops every entry and cancels every in-flight fetch. Used on
// sign-out.
func (s *Store) Purge() {
	s.mu.Lock()
	var cancels []context.CancelFunc
	for _, list := range s.inflight {
		for _, f := range list {
			cancels = append(cancels, f.cancel)
		}
	}
	s.entries = make(map[string]entry)
	s.inflight = make(map[string][]inflightEntry)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Inflight is the handle for one registered fetch.
type Inflight struct {
	s   *Store
	key Key
	id  uint64
}

// TrackInflight registers a cancel func for a fetch that will write key.
// Callers settle the fetch through the returned handle: Commit on success,
// Untrack on every other path.
func (s *Store) TrackInflight(key Key, cancel context.CancelFunc) *Inflight {
	s.mu.Lock()
	s.inflightID++
	id := s.inflightID
	ks := key.String()
	s.inflight[ks] = append(s.inflight[ks], inflightEntry{id: id, cancel: cancel})
	s.mu.Unlock()

	return &Inflight{s: s, key: key, id: id}
}

// Untrack forgets the registration without writing anything. Idempotent.
func (f *Inflight) Untrack() {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.removeInflightLocked(f.key.String(), f.id)
}

// Commit stores the fetched value under the key only if the registration is
// still live, removing it in the same critical section. A false return
// means a mutation cancelled the fetch after the response was already in
// hand; the value must be discarded, never written, or it would overwrite
// the mutation's speculative state with pre-mutation server state.
func (f *Inflight) Commit(value any) bool {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	ks := f.key.String()
	if !f.s.removeInflightLocked(ks, f.id) {
		return false
	}
	f.s.entries[ks] = entry{key: f.key, value: value}
	return true
}

// removeInflightLocked drops the registration with the given id, reporting
// whether it was still present. Callers hold s.mu.
func (s *Store) removeInflightLocked(ks string, id uint64) bool {
	list := s.inflight[ks]
	for i, e := range list {
		if e.id == id {
			s.inflight[ks] = append(list[:i], list[i+1:]...)
			if len(s.inflight[ks]) == 0 {
				delete(s.inflight, ks)
			}
			return true
		}
	}
	return false
}

// CancelInflight cancels and forgets every in-flight fetch for the given
// keys. The optimistic protocol calls this before snapshotting so a late
// stale response cannot overwrite a speculative or restored value.
func (s *Store) CancelInflight(keys ...Key) {
	s.mu.Lock()
	var cancels []context.CancelFunc
	for _, key := range keys {
		ks := key.String()
		for _, e := range s.inflight[ks] {
			cancels = append(cancels, e.cancel)
		}
		delete(s.inflight, ks)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
