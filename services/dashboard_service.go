package services

import (
	"context"
	"fmt"
	"strconv"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/dashboard"
	"habitFlowClient/internal/types/stats"
	"habitFlowClient/internal/types/streak"
)

// DashboardService serves the read-only aggregate views: the home dashboard,
// per-entity streaks, the week picture, and the habit chains. All of them
// are server-computed; mutations elsewhere patch or invalidate them, and the
// next read here refetches.
type DashboardService struct {
	store *cache.Store
	api   *api.Client
}

func NewDashboardService(store *cache.Store, client *api.Client) *DashboardService {
	return &DashboardService{store: store, api: client}
}

func (s *DashboardService) GetHomeDashboard(ctx context.Context) (*dashboard.HomeDashboard, error) {
	return fetchCached[*dashboard.HomeDashboard](ctx, s.store, s.api, cache.DashboardKey(), "/api/dashboard/home")
}

func (s *DashboardService) GetStreak(ctx context.Context, entityID string) (*streak.StreakInfo, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	return fetchCached[*streak.StreakInfo](ctx, s.store, s.api, cache.StreakKey(entityID), "/api/entities/"+entityID+"/streak")
}

func (s *DashboardService) GetWeekProgress(ctx context.Context, entityID string) (*stats.WeekProgress, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	return fetchCached[*stats.WeekProgress](ctx, s.store, s.api, cache.WeekProgressKey(entityID), "/api/entities/"+entityID+"/week-progress")
}

func (s *DashboardService) GetHabitChain(ctx context.Context, entityID string, periodDays int) (*stats.HabitChain, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	valid := false
	for _, p := range stats.Periods {
		if p == periodDays {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unsupported chain period %d", periodDays)
	}

	key := cache.HabitChainKey(entityID, periodDays)
	path := "/api/entities/" + entityID + "/chain?period=" + strconv.Itoa(periodDays)
	return fetchCached[*stats.HabitChain](ctx, s.store, s.api, key, path)
}
