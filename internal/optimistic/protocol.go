// Package optimistic implements the speculative cache-update protocol shared
// by every mutation: cancel in-flight fetches for the keys about to change,
// snapshot them, apply a best-effort local transform immediately, then either
// reconcile with the server response or restore the snapshot.
package optimistic

import (
	"habitFlowClient/internal/cache"
	"habitFlowClient/middleware"
)

// Action is one mutation's optimistic configuration: the cache keys it may
// touch plus its three transforms. Speculate and Reconcile/MarkFailed are
// pure cache work; none of them perform I/O or fail.
type Action struct {
	// Keys is every cache key the transforms may touch. It drives both the
	// pre-mutation cancellation and the snapshot.
	Keys []cache.Key

	// Speculate applies the local transform without waiting for the network.
	Speculate func(s *cache.Store)

	// Reconcile replaces speculative records with the authoritative server
	// record once the request succeeds.
	Reconcile func(s *cache.Store, confirmed any)

	// MarkFailed re-surfaces the synthesized placeholder as failed after a
	// rollback, so the UI can offer retry instead of the record silently
	// disappearing.
	MarkFailed func(s *cache.Store)
}

// Token is the ephemeral rollback context for one mutation instance. It is
// discarded after Commit or Rollback.
type Token struct {
	action Action
	snap   *cache.Snapshot
}

// Protocol runs Actions against one store.
type Protocol struct {
	store *cache.Store
}

func NewProtocol(store *cache.Store) *Protocol {
	return &Protocol{store: store}
}

// Begin runs the strictly-ordered front half of the protocol: cancel, then
// snapshot, then speculate. Reordering these reintroduces the race between a
// late fetch response and the speculative write. A nil token is returned for
// an action with no keys; Commit and Rollback treat it as a no-op.
func (p *Protocol) Begin(a Action) *Token {
	if len(a.Keys) == 0 {
		return nil
	}

	p.store.CancelInflight(a.Keys...)
	snap := p.store.Capture(a.Keys...)
	if a.Speculate != nil {
		a.Speculate(p.store)
	}

	return &Token{action: a, snap: snap}
}

// Commit reconciles the speculative state with the confirmed server record.
func (p *Protocol) Commit(t *Token, confirmed any) {
	if t == nil {
		return
	}
	if t.action.Reconcile != nil {
		t.action.Reconcile(p.store, confirmed)
	}
}

// Rollback restores every snapshotted key verbatim, then re-surfaces the
// placeholder as failed. Safe to call with a nil token: a missing token
// means the mutation never speculated.
func (p *Protocol) Rollback(t *Token) {
	if t == nil {
		return
	}
	p.store.Restore(t.snap)
	middleware.OptimisticRollbacksTotal.Inc()
	if t.action.MarkFailed != nil {
		t.action.MarkFailed(p.store)
	}
}
