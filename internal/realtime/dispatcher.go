// Package realtime applies server-pushed change events to the local cache so
// other devices' writes become visible without a manual refresh.
package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/checkin"
)

// Event is one change notification from the sync channel.
type Event struct {
	Type       string `json:"type"`
	EntityID   string `json:"entity_id,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
}

// Event types the dispatcher understands. Unknown types fall back to a
// dashboard refresh.
const (
	EventEntityUpdated   = "entity_updated"
	EventStatsRecomputed = "stats_recomputed"
	EventPartnerActivity = "partner_activity"
)

// EventSource delivers events until ctx is cancelled or the stream ends.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Dispatcher drains an EventSource through a small worker pool and turns each
// event into targeted cache invalidations.
type Dispatcher struct {
	store    *cache.Store
	source   EventSource
	workers  int
	jobQueue chan Event
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewDispatcher(store *cache.Store, source EventSource) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		source:   source,
		workers:  2,
		jobQueue: make(chan Event, 64),
		stopChan: make(chan struct{}),
	}

	d.startWorkers()
	return d
}

// Run subscribes to the source and feeds the worker pool. It reconnects with
// a fixed backoff until Stop is called or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.stopChan:
				return
			case <-ctx.Done():
				return
			default:
			}

			events, err := d.source.Subscribe(ctx)
			if err != nil {
				log.Printf("Failed to subscribe to sync events: %v", err)
				select {
				case <-time.After(5 * time.Second):
					continue
				case <-d.stopChan:
					return
				case <-ctx.Done():
					return
				}
			}

			d.drain(ctx, events)
		}
	}()
}

func (d *Dispatcher) drain(ctx context.Context, events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case d.jobQueue <- ev:
			default:
				log.Printf("Dropping sync event %s: queue full", ev.Type)
			}
		case <-d.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.jobQueue:
			d.apply(ev)
		case <-d.stopChan:
			return
		}
	}
}

// apply marks the affected keys stale so the next read refetches. Values are
// never rewritten here; the server copy is fetched lazily.
func (d *Dispatcher) apply(ev Event) {
	switch ev.Type {
	case EventEntityUpdated:
		if ev.EntityID == "" {
			d.store.Invalidate(cache.GoalsKey(), cache.ChallengesKey(), cache.DashboardKey())
			return
		}
		et := checkin.EntityType(ev.EntityType)
		if et == "" {
			et = checkin.EntityGoal
		}
		if et == checkin.EntityChallenge {
			d.store.Invalidate(cache.ChallengeKey(ev.EntityID), cache.ChallengesKey(), cache.MembershipsKey())
		} else {
			d.store.Invalidate(cache.GoalKey(ev.EntityID), cache.GoalsKey())
		}
		d.store.Invalidate(
			cache.StreakKey(ev.EntityID),
			cache.CheckInsKey(string(et), ev.EntityID),
			cache.TodayCheckInsKey(),
			cache.DashboardKey(),
		)
		d.store.InvalidatePrefix(cache.TrackingPrefix(ev.EntityID))
	case EventStatsRecomputed:
		if ev.EntityID == "" {
			d.store.Invalidate(cache.DashboardKey())
			return
		}
		d.store.InvalidatePrefix(cache.TrackingPrefix(ev.EntityID))
		d.store.Invalidate(cache.WeekProgressKey(ev.EntityID), cache.DashboardKey())
	case EventPartnerActivity:
		d.store.Invalidate(cache.PartnersKey(), cache.NudgesKey())
	default:
		log.Printf("Unknown sync event type %q, refreshing dashboard", ev.Type)
		d.store.Invalidate(cache.DashboardKey())
	}
}

// Stop shuts the dispatcher down and waits for in-flight events to finish.
func (d *Dispatcher) Stop() {
	log.Println("Stopping sync dispatcher...")
	close(d.stopChan)
	d.wg.Wait()
	log.Println("Sync dispatcher stopped")
}
