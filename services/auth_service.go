package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/prefs"
	"habitFlowClient/internal/types/account"
)

var ErrNoSession = errors.New("auth: no stored session")

// AuthService owns the session lifecycle: sign-in, restoring a persisted
// session on launch, and the sign-out teardown. The bearer token lives in
// the TokenStore for the transport and in prefs for persistence; the cache
// holds only the account record.
type AuthService struct {
	store  *cache.Store
	api    *api.Client
	tokens *api.TokenStore
	prefs  *prefs.Store
}

func NewAuthService(store *cache.Store, client *api.Client, tokens *api.TokenStore, p *prefs.Store) *AuthService {
	return &AuthService{store: store, api: client, tokens: tokens, prefs: p}
}

func (s *AuthService) SignIn(ctx context.Context, req *account.SignInRequest) (*account.Session, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp := &account.SignInResponse{}
	if err := s.api.Post(ctx, "/api/auth/login", req, resp); err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("sign-in response carried no token")
	}

	s.tokens.SetToken(resp.Token)
	if err := s.prefs.Set(ctx, prefs.KeySessionToken, resp.Token); err != nil {
		log.Printf("Failed to persist session token: %v", err)
	}
	if resp.Account != nil {
		s.store.Set(cache.AccountKey(), resp.Account)
	}

	return &account.Session{
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
		Account:   resp.Account,
	}, nil
}

// RestoreSession loads the persisted token on app launch. An expired token
// is discarded so the app lands on the sign-in screen instead of failing its
// first request.
func (s *AuthService) RestoreSession(ctx context.Context) (*account.Session, error) {
	token, err := s.prefs.Get(ctx, prefs.KeySessionToken)
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read stored session: %w", err)
	}

	expiry := tokenExpiry(token)
	if !expiry.IsZero() && expiry.Before(time.Now()) {
		if err := s.prefs.Delete(ctx, prefs.KeySessionToken); err != nil {
			log.Printf("Failed to drop expired session token: %v", err)
		}
		return nil, ErrNoSession
	}

	s.tokens.SetToken(token)
	return &account.Session{Token: token, ExpiresAt: expiry}, nil
}

func (s *AuthService) CurrentAccount(ctx context.Context) (*account.Account, error) {
	return fetchCached[*account.Account](ctx, s.store, s.api, cache.AccountKey(), "/api/auth/me")
}

// SignOut tears the session down everywhere: token store, persisted prefs,
// and the entire cache. Purging the cache is what keeps one user's data from
// ever rendering under the next sign-in.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.tokens.Clear()
	s.store.Purge()
	if err := s.prefs.Delete(ctx, prefs.KeySessionToken); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only uses it to decide whether a refresh or re-login is needed.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
