package cache

import (
	"reflect"
	"testing"
)

func TestSnapshotRestoresValuesAndAbsence(t *testing.T) {
	s := NewStore()
	listBefore := []string{"a", "b"}
	s.Set(GoalsKey(), listBefore)
	// DashboardKey deliberately absent at capture time.

	snap := s.Capture(GoalsKey(), DashboardKey())

	s.Set(GoalsKey(), []string{"a", "b", "c"})
	s.Set(DashboardKey(), "speculative")

	s.Restore(snap)

	v, ok := s.Get(GoalsKey())
	if !ok {
		t.Fatal("restored entry missing")
	}
	restored, ok := v.([]string)
	if !ok || !reflect.DeepEqual(restored, listBefore) {
		t.Fatalf("got %v, want the captured slice %v", v, listBefore)
	}
	if _, ok := s.Get(DashboardKey()); ok {
		t.Fatal("entry absent at capture time survived restore")
	}
}

func TestSnapshotPreservesStaleMark(t *testing.T) {
	s := NewStore()
	s.Set(GoalsKey(), "value")
	s.Invalidate(GoalsKey())

	snap := s.Capture(GoalsKey())
	s.Set(GoalsKey(), "speculative")
	s.Restore(snap)

	// The entry was stale at capture; after restore it must still read as a
	// miss so the next reader refetches.
	if _, ok := s.Get(GoalsKey()); ok {
		t.Fatal("restore cleared the stale mark")
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Set(GoalsKey(), "original")
	snap := s.Capture(GoalsKey())

	s.Set(GoalsKey(), "speculative")
	s.Restore(snap)
	s.Restore(snap)

	v, _ := s.Get(GoalsKey())
	if v != "original" {
		t.Fatalf("got %v after double restore, want original", v)
	}
}

func TestRestoreNilSnapshotIsNoop(t *testing.T) {
	s := NewStore()
	s.Set(GoalsKey(), "value")
	s.Restore(nil)
	if v, _ := s.Get(GoalsKey()); v != "value" {
		t.Fatal("nil restore disturbed the store")
	}
}
