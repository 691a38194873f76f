package optimistic

import (
	"testing"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/types/dashboard"
	"habitFlowClient/internal/types/goal"
)

func TestCreateGoalSpeculatesAndReconciles(t *testing.T) {
	s := cache.NewStore()
	s.Set(cache.GoalsKey(), []*goal.Goal{})
	s.Set(cache.DashboardKey(), &dashboard.HomeDashboard{})

	p := NewProtocol(s)
	rec := NewPendingGoal(&goal.CreateGoalRequest{Title: "Read daily"})
	tok := p.Begin(CreateGoalAction(rec))

	list, _ := cache.GetAs[[]*goal.Goal](s, cache.GoalsKey())
	if len(list) != 1 || !list[0].Pending || list[0].ClientID != rec.ClientID {
		t.Fatalf("pending goal not inserted: %+v", list)
	}
	d, _ := cache.GetAs[*dashboard.HomeDashboard](s, cache.DashboardKey())
	if len(d.ActiveGoals) != 1 {
		t.Fatalf("pending goal missing from dashboard: %+v", d.ActiveGoals)
	}

	confirmed := *rec
	confirmed.ID = "srv-goal-1"
	confirmed.Pending = false
	p.Commit(tok, &confirmed)

	list, _ = cache.GetAs[[]*goal.Goal](s, cache.GoalsKey())
	if len(list) != 1 || list[0].ID != "srv-goal-1" || list[0].Pending {
		t.Fatalf("confirmed goal not reconciled: %+v", list)
	}
	detail, ok := cache.GetAs[*goal.Goal](s, cache.GoalKey("srv-goal-1"))
	if !ok || detail.ID != "srv-goal-1" {
		t.Fatal("goal detail not cached after reconcile")
	}
	if _, ok := s.Get(cache.DashboardKey()); ok {
		t.Fatal("dashboard still readable after reconcile; it must refetch")
	}
}

func TestCreateGoalRollbackSurfacesFailure(t *testing.T) {
	s := cache.NewStore()
	s.Set(cache.GoalsKey(), []*goal.Goal{})

	p := NewProtocol(s)
	rec := NewPendingGoal(&goal.CreateGoalRequest{Title: "Meditate"})
	tok := p.Begin(CreateGoalAction(rec))
	p.Rollback(tok)

	list, _ := cache.GetAs[[]*goal.Goal](s, cache.GoalsKey())
	if len(list) != 1 || !list[0].Failed {
		t.Fatalf("failed goal not surfaced for retry: %+v", list)
	}
}

func TestUpdateGoalStatusClonesRecords(t *testing.T) {
	s := cache.NewStore()
	existing := &goal.Goal{ID: "g1", Title: "Run", Status: goal.StatusActive}
	s.Set(cache.GoalsKey(), []*goal.Goal{existing})
	s.Set(cache.GoalKey("g1"), existing)
	s.Set(cache.DashboardKey(), &dashboard.HomeDashboard{
		ActiveGoals:  []*goal.Goal{existing},
		PendingToday: []dashboard.PendingCheckIn{{EntityID: "g1", Title: "Run"}},
	})

	p := NewProtocol(s)
	p.Begin(UpdateGoalStatusAction("g1", goal.StatusPaused))

	if existing.Status != goal.StatusActive {
		t.Fatal("cached goal mutated in place")
	}
	list, _ := cache.GetAs[[]*goal.Goal](s, cache.GoalsKey())
	if list[0].Status != goal.StatusPaused {
		t.Fatalf("list status not updated: %+v", list[0])
	}
	detail, _ := cache.GetAs[*goal.Goal](s, cache.GoalKey("g1"))
	if detail.Status != goal.StatusPaused {
		t.Fatalf("detail status not updated: %+v", detail)
	}
	d, _ := cache.GetAs[*dashboard.HomeDashboard](s, cache.DashboardKey())
	if len(d.ActiveGoals) != 0 || len(d.PendingToday) != 0 {
		t.Fatalf("paused goal still on the dashboard: %+v", d)
	}
}

func TestDeleteGoalDropsScopedCaches(t *testing.T) {
	s := cache.NewStore()
	existing := &goal.Goal{ID: "g1", Title: "Run", Status: goal.StatusActive}
	s.Set(cache.GoalsKey(), []*goal.Goal{existing})
	s.Set(cache.GoalKey("g1"), existing)
	s.Set(cache.DashboardKey(), &dashboard.HomeDashboard{ActiveGoals: []*goal.Goal{existing}})

	p := NewProtocol(s)
	tok := p.Begin(DeleteGoalAction("g1"))

	list, _ := cache.GetAs[[]*goal.Goal](s, cache.GoalsKey())
	if len(list) != 0 {
		t.Fatalf("deleted goal still listed: %+v", list)
	}
	if _, ok := s.Get(cache.GoalKey("g1")); ok {
		t.Fatal("deleted goal detail still cached")
	}

	p.Commit(tok, nil)
	if _, ok := s.Get(cache.StreakKey("g1")); ok {
		t.Fatal("streak for deleted goal still cached")
	}
}
