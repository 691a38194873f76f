// Package services is the app-facing API of the data layer. Each service
// wraps one resource family: reads go through the shared cache, mutations go
// through the optimistic protocol.
package services

import (
	"context"
	"fmt"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
)

// fetchCached is the shared read-through path: cache hit wins, a miss fetches
// path and stores the result under key. The fetch is registered as in-flight
// so a mutation that touches key can cancel it; a cancelled fetch never
// writes its response back, even if the response arrived before the cancel.
func fetchCached[T any](ctx context.Context, store *cache.Store, client *api.Client, key cache.Key, path string) (T, error) {
	if v, ok := cache.GetAs[T](store, key); ok {
		return v, nil
	}

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fetch := store.TrackInflight(key, cancel)
	defer fetch.Untrack()

	var out T
	if err := client.Get(fctx, path, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	// Commit writes the value only if no mutation cancelled this fetch in
	// the meantime; the registration check and the write share one critical
	// section. On a cancelled fetch the value is still fine for this caller,
	// but the cache holds newer speculative state.
	fetch.Commit(out)
	return out, nil
}
