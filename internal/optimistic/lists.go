package optimistic

import "habitFlowClient/internal/cache"

// List transforms follow copy-on-write: cached slices and records are never
// mutated in place, because the snapshot holds the old slice header and
// rollback must restore it untouched.

// upsert applies the find-or-update-or-append rule to the list under key.
//
// The first record matched by match is passed to update; update returns the
// replacement record, or nil for "already done, leave the cache untouched"
// (the idempotence no-op). When nothing matches, appendNew synthesizes the
// placeholder to append, or returns nil to skip. An uncached list is left
// uncached: there is nothing to maintain, and synthesizing a one-element
// list would masquerade as a complete fetch result.
func upsert[T any](s *cache.Store, key cache.Key, match func(*T) bool, update func(*T) *T, appendNew func() *T) bool {
	list, ok := cache.GetAs[[]*T](s, key)
	if !ok {
		return false
	}

	for i, rec := range list {
		if !match(rec) {
			continue
		}
		replacement := update(rec)
		if replacement == nil {
			return false
		}
		next := make([]*T, len(list))
		copy(next, list)
		next[i] = replacement
		s.Set(key, next)
		return true
	}

	rec := appendNew()
	if rec == nil {
		return false
	}
	next := make([]*T, len(list), len(list)+1)
	copy(next, list)
	s.Set(key, append(next, rec))
	return true
}

// reconcileList drops every record matched by drop (pending placeholders
// plus, defensively, any record already carrying the confirmed identifier)
// and appends the authoritative record.
func reconcileList[T any](s *cache.Store, key cache.Key, drop func(*T) bool, confirmed *T) {
	list, ok := cache.GetAs[[]*T](s, key)
	if !ok {
		return
	}

	next := make([]*T, 0, len(list)+1)
	for _, rec := range list {
		if drop(rec) {
			continue
		}
		next = append(next, rec)
	}
	s.Set(key, append(next, confirmed))
}

// removeFromList drops every matched record; leaves an uncached list alone.
func removeFromList[T any](s *cache.Store, key cache.Key, match func(*T) bool) {
	list, ok := cache.GetAs[[]*T](s, key)
	if !ok {
		return
	}

	next := make([]*T, 0, len(list))
	changed := false
	for _, rec := range list {
		if match(rec) {
			changed = true
			continue
		}
		next = append(next, rec)
	}
	if changed {
		s.Set(key, next)
	}
}

// replaceFailed swaps the matched record for the failed placeholder, or
// appends it when rollback removed it entirely. An uncached list is left
// uncached, mirroring upsert: no placeholder was ever shown through it.
func replaceFailed[T any](s *cache.Store, key cache.Key, match func(*T) bool, failed *T) {
	list, ok := cache.GetAs[[]*T](s, key)
	if !ok {
		return
	}

	next := make([]*T, len(list))
	copy(next, list)
	for i, rec := range next {
		if match(rec) {
			next[i] = failed
			s.Set(key, next)
			return
		}
	}
	s.Set(key, append(next, failed))
}
