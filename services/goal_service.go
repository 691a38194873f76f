package services

import (
	"context"
	"fmt"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/goal"
)

type GoalService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewGoalService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *GoalService {
	return &GoalService{store: store, api: client, protocol: protocol}
}

func (s *GoalService) GetGoals(ctx context.Context) ([]*goal.Goal, error) {
	return fetchCached[[]*goal.Goal](ctx, s.store, s.api, cache.GoalsKey(), "/api/goals")
}

func (s *GoalService) GetGoal(ctx context.Context, goalID string) (*goal.Goal, error) {
	if goalID == "" {
		return nil, fmt.Errorf("goal id is required")
	}
	return fetchCached[*goal.Goal](ctx, s.store, s.api, cache.GoalKey(goalID), "/api/goals/"+goalID)
}

// CreateGoal shows the new goal immediately as a pending record and swaps it
// for the server's copy once confirmed. On failure the pending record comes
// back marked failed so the UI can offer retry.
func (s *GoalService) CreateGoal(ctx context.Context, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	if req == nil || req.Title == "" {
		return nil, fmt.Errorf("goal title is required")
	}

	rec := optimistic.NewPendingGoal(req)
	tok := s.protocol.Begin(optimistic.CreateGoalAction(rec))

	confirmed := &goal.Goal{}
	if err := s.api.Post(ctx, "/api/goals", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *GoalService) UpdateGoalStatus(ctx context.Context, goalID string, status goal.Status) (*goal.Goal, error) {
	if goalID == "" {
		return nil, fmt.Errorf("goal id is required")
	}
	switch status {
	case goal.StatusActive, goal.StatusPaused, goal.StatusArchived, goal.StatusCompleted:
	default:
		return nil, fmt.Errorf("invalid goal status %q", status)
	}

	tok := s.protocol.Begin(optimistic.UpdateGoalStatusAction(goalID, status))

	confirmed := &goal.Goal{}
	req := &goal.UpdateGoalStatusRequest{Status: status}
	if err := s.api.Put(ctx, "/api/goals/"+goalID+"/status", req, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to update goal status: %w", err)
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, goalID string) error {
	if goalID == "" {
		return fmt.Errorf("goal id is required")
	}

	tok := s.protocol.Begin(optimistic.DeleteGoalAction(goalID))

	if err := s.api.Delete(ctx, "/api/goals/"+goalID); err != nil {
		s.protocol.Rollback(tok)
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	s.protocol.Commit(tok, nil)
	return nil
}
