package middleware

import "net/http"

// TokenProvider supplies the current bearer token. An empty token means no
// Authorization header is attached (public endpoints, signed-out state).
type TokenProvider interface {
	Token() string
}

type authTransport struct {
	tokens TokenProvider
	next   http.RoundTripper
}

// NewAuthTransport attaches the session bearer token to every outbound
// request. Verification is the backend's job; this layer never inspects the
// token beyond reading its expiry.
func NewAuthTransport(tokens TokenProvider, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{tokens: tokens, next: next}
}

func (t *authTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if token := t.tokens.Token(); token != "" {
		clone := r.Clone(r.Context())
		clone.Header.Set("Authorization", "Bearer "+token)
		return t.next.RoundTrip(clone)
	}
	return t.next.RoundTrip(r)
}
