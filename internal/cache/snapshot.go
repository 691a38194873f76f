package cache

// Snapshot is a verbatim capture of the entries for a fixed key set,
// including explicit absence, taken before a speculative mutation. Restoring
// it rolls the store back to the captured state for exactly those keys.
type Snapshot struct {
	entries []snapEntry
}

type snapEntry struct {
	key     Key
	value   any
	present bool
	stale   bool
}

// Capture records the current value (or absence) of every given key. It must
// run before any speculative write for the same keys.
func (s *Store) Capture(keys ...Key) *Snapshot {
	snap := &Snapshot{entries: make([]snapEntry, 0, len(keys))}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range keys {
		e, ok := s.entries[key.String()]
		se := snapEntry{key: key, present: ok}
		if ok {
			se.value = e.value
			se.stale = e.stale
		}
		snap.entries = append(snap.entries, se)
	}
	return snap
}

// Restore writes every captured value back verbatim, removing entries that
// were absent at capture time. Idempotent and nil-safe: a missing snapshot
// means the corresponding mutation never speculated, so there is nothing to
// undo.
func (s *Store) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, se := range snap.entries {
		ks := se.key.String()
		if !se.present {
			delete(s.entries, ks)
			continue
		}
		s.entries[ks] = entry{key: se.key, value: se.value, stale: se.stale}
	}
}

// Keys returns the captured key set, in capture order.
func (snap *Snapshot) Keys() []Key {
	if snap == nil {
		return nil
	}
	keys := make([]Key, len(snap.entries))
	for i, se := range snap.entries {
		keys[i] = se.key
	}
	return keys
}
