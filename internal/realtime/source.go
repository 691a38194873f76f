package realtime

import (
	"context"
	"log"
	"time"

	"habitFlowClient/internal/api"
)

// APISource polls the backend's sync-event feed. The feed returns the events
// accumulated since the previous poll, so a plain interval poll is enough;
// no cursor is kept client-side.
type APISource struct {
	client   *api.Client
	interval time.Duration
}

func NewAPISource(client *api.Client, interval time.Duration) *APISource {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &APISource{client: client, interval: interval}
}

func (s *APISource) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			var events []Event
			if err := s.client.Get(ctx, "/api/sync/events", &events); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Failed to poll sync events: %v", err)
				continue
			}
			for _, ev := range events {
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
