package services

import (
	"context"
	"fmt"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/nudge"
)

type NudgeService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewNudgeService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *NudgeService {
	return &NudgeService{store: store, api: client, protocol: protocol}
}

func (s *NudgeService) GetSentNudges(ctx context.Context) ([]*nudge.Nudge, error) {
	return fetchCached[[]*nudge.Nudge](ctx, s.store, s.api, cache.NudgesKey(), "/api/nudges/sent")
}

func (s *NudgeService) SendNudge(ctx context.Context, req *nudge.SendNudgeRequest) (*nudge.Nudge, error) {
	if req == nil || req.PartnerID == "" {
		return nil, fmt.Errorf("partner id is required")
	}
	if req.Message == "" {
		return nil, fmt.Errorf("nudge message is required")
	}

	rec := optimistic.NewPendingNudge(req)
	tok := s.protocol.Begin(optimistic.SendNudgeAction(rec))

	confirmed := &nudge.Nudge{}
	if err := s.api.Post(ctx, "/api/nudges", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to send nudge: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}
