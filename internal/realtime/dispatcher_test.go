package realtime

import (
	"context"
	"testing"
	"time"

	"habitFlowClient/internal/cache"
)

type stubSource struct {
	events chan Event
}

func (s *stubSource) Subscribe(context.Context) (<-chan Event, error) {
	return s.events, nil
}

func waitForMiss(t *testing.T, s *cache.Store, key cache.Key) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := s.Get(key); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("key %s still readable", key)
}

func TestDispatcherInvalidatesOnEntityUpdate(t *testing.T) {
	store := cache.NewStore()
	store.Set(cache.GoalKey("g1"), "detail")
	store.Set(cache.GoalsKey(), "list")
	store.Set(cache.DashboardKey(), "dashboard")
	store.Set(cache.PartnersKey(), "partners")

	src := &stubSource{events: make(chan Event, 1)}
	d := NewDispatcher(store, src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Run(ctx)
	defer d.Stop()

	src.events <- Event{Type: EventEntityUpdated, EntityID: "g1", EntityType: "goal"}

	waitForMiss(t, store, cache.GoalKey("g1"))
	waitForMiss(t, store, cache.GoalsKey())
	waitForMiss(t, store, cache.DashboardKey())

	if _, ok := store.Get(cache.PartnersKey()); !ok {
		t.Fatal("unrelated key invalidated")
	}
}

func TestDispatcherPartnerActivity(t *testing.T) {
	store := cache.NewStore()
	store.Set(cache.PartnersKey(), "partners")
	store.Set(cache.NudgesKey(), "nudges")
	store.Set(cache.GoalsKey(), "goals")

	src := &stubSource{events: make(chan Event, 1)}
	d := NewDispatcher(store, src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Run(ctx)
	defer d.Stop()

	src.events <- Event{Type: EventPartnerActivity}

	waitForMiss(t, store, cache.PartnersKey())
	waitForMiss(t, store, cache.NudgesKey())
	if _, ok := store.Get(cache.GoalsKey()); !ok {
		t.Fatal("goals invalidated by partner activity")
	}
}
