package optimistic

import (
	"testing"
	"time"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/dates"
	"habitFlowClient/internal/types/stats"
	"habitFlowClient/internal/types/tracking"
)

func mustParse(t *testing.T, day string) time.Time {
	t.Helper()
	parsed, err := dates.Parse(day)
	if err != nil {
		t.Fatalf("failed to parse day %q: %v", day, err)
	}
	return parsed
}

func TestMealStatsWorkedExample(t *testing.T) {
	// First meal of a 30-day window with nothing logged yet: one meal, 500
	// calories total, a 500 average, and a 0% healthy share.
	today := dates.Today()
	s := cache.NewStore()

	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30)
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: 30})
	s.Set(cache.TrackingLogsKey(goalID, string(stats.TypeMeal)), []*tracking.MealLog{})

	rec := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID:     goalID,
		Name:         "burger",
		Calories:     500,
		HealthRating: tracking.RatingUnhealthy,
	}, today)
	NewProtocol(s).Begin(MealAction(rec, today))

	st, ok := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if !ok {
		t.Fatal("meal stats missing after log")
	}
	if st.TotalMealsLogged != 1 || st.TotalCalories != 500 {
		t.Fatalf("got %d meals / %d calories, want 1 / 500", st.TotalMealsLogged, st.TotalCalories)
	}
	if st.AvgCaloriesPerDay != 500 {
		t.Fatalf("got average %v, want 500 (divide by days logged, not period length)", st.AvgCaloriesPerDay)
	}
	if st.HealthyMealPercentage != 0 {
		t.Fatalf("got healthy share %v, want 0", st.HealthyMealPercentage)
	}
	if st.DaysLogged != 1 {
		t.Fatalf("got %d days logged, want 1", st.DaysLogged)
	}
}

func TestMealStatsSecondMealSameDay(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30)
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: 30})
	s.Set(cache.TrackingLogsKey(goalID, string(stats.TypeMeal)), []*tracking.MealLog{})

	p := NewProtocol(s)
	first := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "salad", Calories: 300, HealthRating: tracking.RatingHealthy,
	}, today)
	p.Begin(MealAction(first, today))

	second := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "burger", Calories: 500, HealthRating: tracking.RatingUnhealthy,
	}, today)
	p.Begin(MealAction(second, today))

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.DaysLogged != 1 {
		t.Fatalf("second meal on the same day raised days logged to %d", st.DaysLogged)
	}
	if st.TotalMealsLogged != 2 || st.TotalCalories != 800 {
		t.Fatalf("got %d meals / %d calories, want 2 / 800", st.TotalMealsLogged, st.TotalCalories)
	}
	if st.AvgCaloriesPerDay != 800 {
		t.Fatalf("got average %v, want 800 across one logged day", st.AvgCaloriesPerDay)
	}
	if st.HealthyMealPercentage != 50 {
		t.Fatalf("got healthy share %v, want 50", st.HealthyMealPercentage)
	}
}

func TestMealDuplicateTriggerDoesNotDoubleCount(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30)
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: 30})
	s.Set(cache.TrackingLogsKey(goalID, string(stats.TypeMeal)), []*tracking.MealLog{})

	rec := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "burger", Calories: 500, HealthRating: tracking.RatingNeutral,
	}, today)

	p := NewProtocol(s)
	p.Begin(MealAction(rec, today))
	p.Begin(MealAction(rec, today)) // same placeholder, double-fired trigger

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.TotalMealsLogged != 1 || st.TotalCalories != 500 {
		t.Fatalf("duplicate trigger double counted: %d meals / %d calories", st.TotalMealsLogged, st.TotalCalories)
	}
	logs, _ := cache.GetAs[[]*tracking.MealLog](s, cache.TrackingLogsKey(goalID, string(stats.TypeMeal)))
	if len(logs) != 1 {
		t.Fatalf("duplicate trigger appended twice: %d logs", len(logs))
	}
}

func TestMealDuplicateTriggerUncachedListCountsOnce(t *testing.T) {
	// With the log list never fetched, the list cannot witness the duplicate;
	// the action itself must refuse to re-apply its aggregates.
	today := dates.Today()
	s := cache.NewStore()

	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30)
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: 30})

	rec := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "burger", Calories: 500, HealthRating: tracking.RatingNeutral,
	}, today)

	p := NewProtocol(s)
	action := MealAction(rec, today)
	p.Begin(action)
	p.Begin(action)

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.TotalMealsLogged != 1 || st.TotalCalories != 500 {
		t.Fatalf("double-fired action double counted: %d meals / %d calories",
			st.TotalMealsLogged, st.TotalCalories)
	}
	if _, ok := s.Get(cache.TrackingLogsKey(goalID, string(stats.TypeMeal))); ok {
		t.Fatal("uncached log list synthesized by the speculative transform")
	}
}

func TestWorkoutDuplicateTriggerUncachedListCountsOnce(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeWorkout), 7)
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeWorkout, PeriodDays: 7})

	rec := NewPendingWorkoutSession(&tracking.CompleteWorkoutRequest{
		EntityID: goalID, Activity: "run", DurationMinutes: 30,
	}, today)

	p := NewProtocol(s)
	action := WorkoutAction(rec, today)
	p.Begin(action)
	p.Begin(action)

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.TotalSessions != 1 || st.TotalMinutes != 30 {
		t.Fatalf("double-fired action double counted: %d sessions / %d minutes",
			st.TotalSessions, st.TotalMinutes)
	}
}

func TestBackDatedMealSkipsShortPeriods(t *testing.T) {
	today := dates.Today()
	backDay := dates.Day(mustParse(t, today).AddDate(0, 0, -10))

	s := cache.NewStore()
	for _, period := range stats.Periods {
		s.Set(cache.TrackingStatsKey(goalID, string(stats.TypeMeal), period),
			&stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: period})
	}
	s.Set(cache.TrackingLogsKey(goalID, string(stats.TypeMeal)), []*tracking.MealLog{})

	rec := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "old meal", Calories: 400, HealthRating: tracking.RatingNeutral,
		Date: backDay,
	}, backDay)
	NewProtocol(s).Begin(MealAction(rec, today))

	week, _ := cache.GetAs[*stats.TrackingStats](s, cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 7))
	if week.TotalMealsLogged != 0 {
		t.Fatalf("meal 10 days back counted into the 7-day window: %+v", week)
	}
	month, _ := cache.GetAs[*stats.TrackingStats](s, cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30))
	if month.TotalMealsLogged != 1 {
		t.Fatalf("meal 10 days back missing from the 30-day window: %+v", month)
	}
}

func TestWorkoutOnePerDay(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	logsKey := cache.TrackingLogsKey(goalID, string(stats.TypeWorkout))
	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeWorkout), 7)
	s.Set(logsKey, []*tracking.WorkoutSession{})
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeWorkout, PeriodDays: 7})

	p := NewProtocol(s)
	first := NewPendingWorkoutSession(&tracking.CompleteWorkoutRequest{
		EntityID: goalID, Activity: "run", DurationMinutes: 30,
	}, today)
	p.Begin(WorkoutAction(first, today))

	second := NewPendingWorkoutSession(&tracking.CompleteWorkoutRequest{
		EntityID: goalID, Activity: "swim", DurationMinutes: 45,
	}, today)
	p.Begin(WorkoutAction(second, today))

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.TotalSessions != 1 || st.TotalMinutes != 30 {
		t.Fatalf("second workout on the same day counted: %d sessions / %d minutes",
			st.TotalSessions, st.TotalMinutes)
	}
	logs, _ := cache.GetAs[[]*tracking.WorkoutSession](s, logsKey)
	if len(logs) != 1 {
		t.Fatalf("got %d sessions in the log, want 1 per day", len(logs))
	}
}

func TestHydrationRollbackMarksLogFailed(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	logsKey := cache.TrackingLogsKey(goalID, string(stats.TypeHydration))
	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeHydration), 7)
	s.Set(logsKey, []*tracking.HydrationLog{})
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeHydration, PeriodDays: 7})

	p := NewProtocol(s)
	rec := NewPendingHydrationLog(&tracking.LogHydrationRequest{EntityID: goalID, VolumeML: 330}, today)
	tok := p.Begin(HydrationAction(rec, today))
	p.Rollback(tok)

	st, _ := cache.GetAs[*stats.TrackingStats](s, statsKey)
	if st.TotalDrinks != 0 || st.TotalVolumeML != 0 {
		t.Fatalf("stats not rolled back: %+v", st)
	}
	logs, _ := cache.GetAs[[]*tracking.HydrationLog](s, logsKey)
	if len(logs) != 1 || !logs[0].Failed {
		t.Fatalf("failed hydration log not surfaced for retry: %+v", logs)
	}
}

func TestMealReconcileInvalidatesStats(t *testing.T) {
	today := dates.Today()
	s := cache.NewStore()

	logsKey := cache.TrackingLogsKey(goalID, string(stats.TypeMeal))
	statsKey := cache.TrackingStatsKey(goalID, string(stats.TypeMeal), 30)
	s.Set(logsKey, []*tracking.MealLog{})
	s.Set(statsKey, &stats.TrackingStats{EntityID: goalID, Type: stats.TypeMeal, PeriodDays: 30})

	p := NewProtocol(s)
	rec := NewPendingMealLog(&tracking.LogMealRequest{
		EntityID: goalID, Name: "salad", Calories: 250, HealthRating: tracking.RatingHealthy,
	}, today)
	tok := p.Begin(MealAction(rec, today))

	confirmed := *rec
	confirmed.ID = "srv-meal-1"
	confirmed.Pending = false
	p.Commit(tok, &confirmed)

	logs, _ := cache.GetAs[[]*tracking.MealLog](s, logsKey)
	if len(logs) != 1 || logs[0].ID != "srv-meal-1" || logs[0].Pending {
		t.Fatalf("confirmed meal not reconciled: %+v", logs)
	}
	if _, ok := s.Get(statsKey); ok {
		t.Fatal("speculative stats still readable after reconcile; server figures must win")
	}
}
