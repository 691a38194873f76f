package services

import (
	"context"
	"fmt"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/challenge"
)

type ChallengeService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewChallengeService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *ChallengeService {
	return &ChallengeService{store: store, api: client, protocol: protocol}
}

func (s *ChallengeService) GetChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	return fetchCached[[]*challenge.Challenge](ctx, s.store, s.api, cache.ChallengesKey(), "/api/challenges")
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (*challenge.Challenge, error) {
	if challengeID == "" {
		return nil, fmt.Errorf("challenge id is required")
	}
	return fetchCached[*challenge.Challenge](ctx, s.store, s.api, cache.ChallengeKey(challengeID), "/api/challenges/"+challengeID)
}

func (s *ChallengeService) GetMemberships(ctx context.Context) ([]*challenge.Membership, error) {
	return fetchCached[[]*challenge.Membership](ctx, s.store, s.api, cache.MembershipsKey(), "/api/challenges/memberships")
}

func (s *ChallengeService) JoinChallenge(ctx context.Context, challengeID string) (*challenge.Membership, error) {
	if challengeID == "" {
		return nil, fmt.Errorf("challenge id is required")
	}

	tok := s.protocol.Begin(optimistic.JoinChallengeAction(challengeID))

	confirmed := &challenge.Membership{}
	req := &challenge.JoinChallengeRequest{ChallengeID: challengeID}
	if err := s.api.Post(ctx, "/api/challenges/"+challengeID+"/join", req, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to join challenge: %w", err)
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *ChallengeService) LeaveChallenge(ctx context.Context, challengeID string) error {
	if challengeID == "" {
		return fmt.Errorf("challenge id is required")
	}

	tok := s.protocol.Begin(optimistic.LeaveChallengeAction(challengeID))

	if err := s.api.Delete(ctx, "/api/challenges/"+challengeID+"/membership"); err != nil {
		s.protocol.Rollback(tok)
		return fmt.Errorf("failed to leave challenge: %w", err)
	}
	s.protocol.Commit(tok, nil)
	return nil
}
