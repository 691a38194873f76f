package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

type rateLimitTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// NewRateLimitTransport throttles outbound requests so a burst of UI
// activity cannot hammer the backend. Waiting respects the request context,
// so cancelled fetches stop queueing immediately.
func NewRateLimitTransport(next http.RoundTripper, rps rate.Limit, burst int) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &rateLimitTransport{
		limiter: rate.NewLimiter(rps, burst),
		next:    next,
	}
}

func (t *rateLimitTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(r.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(r)
}
