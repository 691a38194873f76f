package services

import (
	"context"
	"fmt"
	"strconv"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/dates"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/types/stats"
	"habitFlowClient/internal/types/tracking"
)

// TrackingService covers the meal, hydration, and workout logs attached to a
// goal, plus their per-period aggregates.
type TrackingService struct {
	store    *cache.Store
	api      *api.Client
	protocol *optimistic.Protocol
}

func NewTrackingService(store *cache.Store, client *api.Client, protocol *optimistic.Protocol) *TrackingService {
	return &TrackingService{store: store, api: client, protocol: protocol}
}

func trackingPath(entityID string, tt stats.TrackingType) string {
	return "/api/goals/" + entityID + "/tracking/" + string(tt)
}

func (s *TrackingService) GetMealLogs(ctx context.Context, entityID string) ([]*tracking.MealLog, error) {
	key := cache.TrackingLogsKey(entityID, string(stats.TypeMeal))
	return fetchCached[[]*tracking.MealLog](ctx, s.store, s.api, key, trackingPath(entityID, stats.TypeMeal)+"/logs")
}

func (s *TrackingService) GetHydrationLogs(ctx context.Context, entityID string) ([]*tracking.HydrationLog, error) {
	key := cache.TrackingLogsKey(entityID, string(stats.TypeHydration))
	return fetchCached[[]*tracking.HydrationLog](ctx, s.store, s.api, key, trackingPath(entityID, stats.TypeHydration)+"/logs")
}

func (s *TrackingService) GetWorkouts(ctx context.Context, entityID string) ([]*tracking.WorkoutSession, error) {
	key := cache.TrackingLogsKey(entityID, string(stats.TypeWorkout))
	return fetchCached[[]*tracking.WorkoutSession](ctx, s.store, s.api, key, trackingPath(entityID, stats.TypeWorkout)+"/logs")
}

// GetStats returns the aggregates for one (entity, type, period) triple.
// Values cached here may be speculative approximations; any confirmed
// mutation invalidates them so the next call refetches server figures.
func (s *TrackingService) GetStats(ctx context.Context, entityID string, tt stats.TrackingType, periodDays int) (*stats.TrackingStats, error) {
	valid := false
	for _, p := range stats.Periods {
		if p == periodDays {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unsupported stats period %d", periodDays)
	}

	key := cache.TrackingStatsKey(entityID, string(tt), periodDays)
	path := trackingPath(entityID, tt) + "/stats?period=" + strconv.Itoa(periodDays)
	return fetchCached[*stats.TrackingStats](ctx, s.store, s.api, key, path)
}

func (s *TrackingService) LogMeal(ctx context.Context, req *tracking.LogMealRequest) (*tracking.MealLog, error) {
	if req == nil || req.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if req.Calories < 0 {
		return nil, fmt.Errorf("calories must not be negative")
	}

	day, today, err := resolveDay(req.Date)
	if err != nil {
		return nil, err
	}

	rec := optimistic.NewPendingMealLog(req, day)
	tok := s.protocol.Begin(optimistic.MealAction(rec, today))

	confirmed := &tracking.MealLog{}
	if err := s.api.Post(ctx, trackingPath(req.EntityID, stats.TypeMeal)+"/logs", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *TrackingService) LogHydration(ctx context.Context, req *tracking.LogHydrationRequest) (*tracking.HydrationLog, error) {
	if req == nil || req.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if req.VolumeML <= 0 {
		return nil, fmt.Errorf("volume must be positive")
	}

	day, today, err := resolveDay(req.Date)
	if err != nil {
		return nil, err
	}

	rec := optimistic.NewPendingHydrationLog(req, day)
	tok := s.protocol.Begin(optimistic.HydrationAction(rec, today))

	confirmed := &tracking.HydrationLog{}
	if err := s.api.Post(ctx, trackingPath(req.EntityID, stats.TypeHydration)+"/logs", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to log hydration: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

func (s *TrackingService) CompleteWorkout(ctx context.Context, req *tracking.CompleteWorkoutRequest) (*tracking.WorkoutSession, error) {
	if req == nil || req.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}

	day, today, err := resolveDay(req.Date)
	if err != nil {
		return nil, err
	}

	rec := optimistic.NewPendingWorkoutSession(req, day)
	tok := s.protocol.Begin(optimistic.WorkoutAction(rec, today))

	confirmed := &tracking.WorkoutSession{}
	if err := s.api.Post(ctx, trackingPath(req.EntityID, stats.TypeWorkout)+"/logs", rec, confirmed); err != nil {
		s.protocol.Rollback(tok)
		return nil, fmt.Errorf("failed to complete workout: %w", err)
	}
	if confirmed.ClientID == "" {
		confirmed.ClientID = rec.ClientID
	}
	s.protocol.Commit(tok, confirmed)
	return confirmed, nil
}

// resolveDay defaults an empty request date to today and validates the rest.
func resolveDay(date string) (day, today string, err error) {
	today = dates.Today()
	if date == "" {
		return today, today, nil
	}
	if _, err := dates.Parse(date); err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return date, today, nil
}
