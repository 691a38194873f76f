package optimistic

import (
	"time"

	"github.com/oklog/ulid/v2"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/checkin"
	"habitFlowClient/internal/types/dashboard"
	"habitFlowClient/internal/types/goal"
)

func NewPendingGoal(req *goal.CreateGoalRequest) *goal.Goal {
	now := time.Now()
	return &goal.Goal{
		ClientID:     ulid.Make().String(),
		Title:        req.Title,
		Status:       goal.StatusActive,
		ReminderTime: req.ReminderTime,
		ReminderDays: req.ReminderDays,
		Pending:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateGoalAction inserts the pending goal into the goals list and the
// dashboard's active goals until the server assigns it an identifier.
func CreateGoalAction(rec *goal.Goal) Action {
	matchPending := func(g *goal.Goal) bool {
		return g.ClientID != "" && g.ClientID == rec.ClientID
	}

	return Action{
		Keys: []cache.Key{cache.GoalsKey(), cache.DashboardKey()},
		Speculate: func(s *cache.Store) {
			upsert(s, cache.GoalsKey(), matchPending,
				func(*goal.Goal) *goal.Goal { return nil },
				func() *goal.Goal { return rec },
			)
			addDashboardGoal(s, rec)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			g, ok := confirmed.(*goal.Goal)
			if !ok || g == nil {
				return
			}
			reconcileList(s, cache.GoalsKey(), func(c *goal.Goal) bool {
				return c.Pending || c.ID == g.ID ||
					(c.ClientID != "" && c.ClientID == g.ClientID)
			}, g)
			s.Set(cache.GoalKey(g.ID), g)
			s.Invalidate(cache.DashboardKey())
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, cache.GoalsKey(), matchPending, &failed)
		},
	}
}

// UpdateGoalStatusAction rewrites the goal's status in the list and detail
// caches. No placeholder is synthesized, so failure is plain rollback.
func UpdateGoalStatusAction(goalID string, status goal.Status) Action {
	apply := func(g *goal.Goal) *goal.Goal {
		if g.Status == status {
			return nil
		}
		clone := *g
		clone.Status = status
		return &clone
	}

	return Action{
		Keys: []cache.Key{cache.GoalsKey(), cache.GoalKey(goalID), cache.DashboardKey()},
		Speculate: func(s *cache.Store) {
			upsert(s, cache.GoalsKey(),
				func(g *goal.Goal) bool { return g.ID == goalID },
				apply,
				func() *goal.Goal { return nil },
			)
			if g, ok := cache.GetAs[*goal.Goal](s, cache.GoalKey(goalID)); ok {
				if next := apply(g); next != nil {
					s.Set(cache.GoalKey(goalID), next)
				}
			}
			if status != goal.StatusActive {
				removeDashboardGoal(s, goalID)
			}
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			g, ok := confirmed.(*goal.Goal)
			if !ok || g == nil {
				return
			}
			reconcileList(s, cache.GoalsKey(), func(c *goal.Goal) bool {
				return c.ID == g.ID
			}, g)
			s.Set(cache.GoalKey(g.ID), g)
			s.Invalidate(cache.DashboardKey())
		},
	}
}

// DeleteGoalAction removes the goal and, on confirmation, every cache scoped
// to it.
func DeleteGoalAction(goalID string) Action {
	keys := []cache.Key{cache.GoalsKey(), cache.GoalKey(goalID), cache.DashboardKey()}

	return Action{
		Keys: keys,
		Speculate: func(s *cache.Store) {
			removeFromList(s, cache.GoalsKey(), func(g *goal.Goal) bool {
				return g.ID == goalID
			})
			s.Delete(cache.GoalKey(goalID))
			removeDashboardGoal(s, goalID)
		},
		Reconcile: func(s *cache.Store, _ any) {
			for _, key := range TouchedKeys(goalID, checkin.EntityGoal) {
				s.Delete(key)
			}
			s.InvalidatePrefix(cache.TrackingPrefix(goalID))
			s.Invalidate(cache.DashboardKey())
		},
	}
}

func addDashboardGoal(s *cache.Store, rec *goal.Goal) {
	d, ok := cache.GetAs[*dashboard.HomeDashboard](s, cache.DashboardKey())
	if !ok {
		return
	}
	next := *d
	next.ActiveGoals = make([]*goal.Goal, len(d.ActiveGoals), len(d.ActiveGoals)+1)
	copy(next.ActiveGoals, d.ActiveGoals)
	next.ActiveGoals = append(next.ActiveGoals, rec)
	s.Set(cache.DashboardKey(), &next)
}

func removeDashboardGoal(s *cache.Store, goalID string) {
	d, ok := cache.GetAs[*dashboard.HomeDashboard](s, cache.DashboardKey())
	if !ok {
		return
	}
	next := *d
	next.ActiveGoals = make([]*goal.Goal, 0, len(d.ActiveGoals))
	for _, g := range d.ActiveGoals {
		if g.ID == goalID {
			continue
		}
		next.ActiveGoals = append(next.ActiveGoals, g)
	}
	next.PendingToday = make([]dashboard.PendingCheckIn, 0, len(d.PendingToday))
	for _, item := range d.PendingToday {
		if item.EntityID == goalID {
			continue
		}
		next.PendingToday = append(next.PendingToday, item)
	}
	s.Set(cache.DashboardKey(), &next)
}
