package services

import (
	"context"
	"fmt"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/dates"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/checkin"
)

type CheckInService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewCheckInService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *CheckInService {
	return &CheckInService{store: store, api: client, protocol: protocol}
}

// GetCheckIns returns the check-in history for one entity, or the whole
// per-type history when entityID is empty.
func (s *CheckInService) GetCheckIns(ctx context.Context, entityType checkin.EntityType, entityID string) ([]*checkin.CheckIn, error) {
	key := cache.CheckInsKey(string(entityType), entityID)
	path := "/api/check-ins?entity_type=" + string(entityType)
	if entityID != "" {
		path += "&entity_id=" + entityID
	}
	return fetchCached[[]*checkin.CheckIn](ctx, s.store, s.api, key, path)
}

func (s *CheckInService) GetTodayCheckIns(ctx context.Context) ([]*checkin.CheckIn, error) {
	return fetchCached[[]*checkin.CheckIn](ctx, s.store, s.api, cache.TodayCheckInsKey(), "/api/check-ins/today")
}

// CheckIn logs a daily completion for a goal or challenge. The record, the
// streak, the week view, the chains, and the dashboard all update before the
// request leaves the device; a server rejection puts every one of them back.
func (s *CheckInService) CheckIn(ctx context.Context, req *checkin.CreateCheckInRequest) (*checkin.CheckIn, error) {
	if req == nil || req.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if req.EntityType != checkin.EntityGoal && req.EntityType != checkin.EntityChallenge {
		return nil, fmt.Errorf("invalid entity type %q", req.EntityType)
	}

	today := dates.Today()
	day := req.Date
	if day == "" {
		day = today
	} else if _, err := dates.Parse(day); err != nil {
		return nil, fmt.Errorf("invalid check-in date %q: %w", day, err)
	}

	rec := optimistic.NewPendingCheckIn(req, day)
	tok := s.protocol.Begin(optimistic.CheckInAction(rec, today))

	confirmed := &checkin.CheckIn{}
	if err := s.api.Post(ctx, "/api/check-ins", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}
