package optimistic

import (
	"time"

	"github.com/oklog/ulid/v2"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/dates"
	"habitFlowClient/internal/types/checkin"
	"habitFlowClient/internal/types/stats"
	"habitFlowClient/internal/types/tracking"
)

// Tracked-action transforms for meal, hydration, and workout logs. All
// three share the shape of the check-in transform: update the log list,
// update the per-period aggregates the log falls inside of, and, only when
// the log is for today, bump streak, week progress, chains, and dashboard.
//
// The aggregate math is explicitly approximate (the divisor is the locally
// visible logged-day count, not true server history); reconciliation always
// invalidates the stats keys so the server-confirmed figures replace the
// approximation on the next read.

func NewPendingMealLog(req *tracking.LogMealRequest, day string) *tracking.MealLog {
	return &tracking.MealLog{
		ClientID:     ulid.Make().String(),
		EntityID:     req.EntityID,
		Date:         day,
		Name:         req.Name,
		Calories:     req.Calories,
		HealthRating: req.HealthRating,
		Pending:      true,
		LoggedAt:     time.Now(),
	}
}

func NewPendingHydrationLog(req *tracking.LogHydrationRequest, day string) *tracking.HydrationLog {
	return &tracking.HydrationLog{
		ClientID: ulid.Make().String(),
		EntityID: req.EntityID,
		Date:     day,
		VolumeML: req.VolumeML,
		Pending:  true,
		LoggedAt: time.Now(),
	}
}

func NewPendingWorkoutSession(req *tracking.CompleteWorkoutRequest, day string) *tracking.WorkoutSession {
	return &tracking.WorkoutSession{
		ClientID:        ulid.Make().String(),
		EntityID:        req.EntityID,
		Date:            day,
		Activity:        req.Activity,
		DurationMinutes: req.DurationMinutes,
		Completed:       true,
		Pending:         true,
		LoggedAt:        time.Now(),
	}
}

func MealAction(rec *tracking.MealLog, today string) Action {
	logsKey := cache.TrackingLogsKey(rec.EntityID, string(stats.TypeMeal))
	// applied makes a re-fired action a no-op even when the log list is not
	// cached and so cannot witness the duplicate itself.
	applied := false
	return Action{
		Keys: TouchedKeys(rec.EntityID, checkin.EntityGoal),
		Speculate: func(s *cache.Store) {
			if applied {
				return
			}
			applied = true
			newDay := !hasMealForDay(s, logsKey, rec.Date, rec.ClientID)
			if !appendMealLog(s, logsKey, rec) && listCached(s, logsKey) {
				// The same placeholder is already in the list: duplicate
				// trigger, leave the aggregates alone.
				return
			}
			for _, period := range stats.Periods {
				if dates.WithinDays(rec.Date, today, period) {
					applyMealToStats(s, rec, period, newDay)
				}
			}
			speculateDayActivity(s, rec.EntityID, rec.Date, today)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			c, ok := confirmed.(*tracking.MealLog)
			if !ok || c == nil {
				return
			}
			reconcileList(s, logsKey, func(l *tracking.MealLog) bool {
				return l.Pending || l.ID == c.ID || (l.ClientID != "" && l.ClientID == c.ClientID)
			}, c)
			invalidateTrackingStats(s, rec.EntityID, stats.TypeMeal)
			invalidateEntityAggregates(s, rec.EntityID)
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, logsKey, func(l *tracking.MealLog) bool {
				return l.ClientID != "" && l.ClientID == rec.ClientID
			}, &failed)
		},
	}
}

func HydrationAction(rec *tracking.HydrationLog, today string) Action {
	logsKey := cache.TrackingLogsKey(rec.EntityID, string(stats.TypeHydration))
	applied := false
	return Action{
		Keys: TouchedKeys(rec.EntityID, checkin.EntityGoal),
		Speculate: func(s *cache.Store) {
			if applied {
				return
			}
			applied = true
			newDay := !hasHydrationForDay(s, logsKey, rec.Date, rec.ClientID)
			if !appendHydrationLog(s, logsKey, rec) && listCached(s, logsKey) {
				return
			}
			for _, period := range stats.Periods {
				if dates.WithinDays(rec.Date, today, period) {
					applyHydrationToStats(s, rec, period, newDay)
				}
			}
			speculateDayActivity(s, rec.EntityID, rec.Date, today)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			c, ok := confirmed.(*tracking.HydrationLog)
			if !ok || c == nil {
				return
			}
			reconcileList(s, logsKey, func(l *tracking.HydrationLog) bool {
				return l.Pending || l.ID == c.ID || (l.ClientID != "" && l.ClientID == c.ClientID)
			}, c)
			invalidateTrackingStats(s, rec.EntityID, stats.TypeHydration)
			invalidateEntityAggregates(s, rec.EntityID)
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, logsKey, func(l *tracking.HydrationLog) bool {
				return l.ClientID != "" && l.ClientID == rec.ClientID
			}, &failed)
		},
	}
}

func WorkoutAction(rec *tracking.WorkoutSession, today string) Action {
	logsKey := cache.TrackingLogsKey(rec.EntityID, string(stats.TypeWorkout))
	applied := false
	return Action{
		Keys: TouchedKeys(rec.EntityID, checkin.EntityGoal),
		Speculate: func(s *cache.Store) {
			if applied {
				return
			}
			applied = true
			changed := upsertWorkout(s, logsKey, rec)
			if !changed {
				// A completed session for this day is already cached; a
				// duplicate trigger must leave everything else alone too.
				return
			}
			for _, period := range stats.Periods {
				if dates.WithinDays(rec.Date, today, period) {
					applyWorkoutToStats(s, rec, period)
				}
			}
			speculateDayActivity(s, rec.EntityID, rec.Date, today)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			c, ok := confirmed.(*tracking.WorkoutSession)
			if !ok || c == nil {
				return
			}
			reconcileList(s, logsKey, func(l *tracking.WorkoutSession) bool {
				return l.Pending || l.ID == c.ID || (l.ClientID != "" && l.ClientID == c.ClientID)
			}, c)
			invalidateTrackingStats(s, rec.EntityID, stats.TypeWorkout)
			invalidateEntityAggregates(s, rec.EntityID)
		},
		MarkFailed: func(s *cache.Store) {
			failed := *rec
			failed.Failed = true
			replaceFailed(s, logsKey, func(l *tracking.WorkoutSession) bool {
				return l.ClientID != "" && l.ClientID == rec.ClientID
			}, &failed)
		},
	}
}

// speculateDayActivity applies the today-scoped side effects shared by all
// tracked actions. Back-dated and future-dated logs skip all of it.
func speculateDayActivity(s *cache.Store, entityID, day, today string) {
	if day != today {
		return
	}
	bumpStreak(s, entityID, today)
	markWeekDay(s, entityID, today)
	for _, period := range stats.Periods {
		markChainDay(s, entityID, period, today)
	}
	completeDashboardItem(s, entityID)
}

func invalidateTrackingStats(s *cache.Store, entityID string, tt stats.TrackingType) {
	for _, period := range stats.Periods {
		s.Invalidate(cache.TrackingStatsKey(entityID, string(tt), period))
	}
}

// appendMealLog appends rec unless a record with the same client id is
// already present (idempotence against duplicate triggers). Unlike
// check-ins, several meals a day are legitimate, so there is no per-day
// find-or-update.
func appendMealLog(s *cache.Store, key cache.Key, rec *tracking.MealLog) bool {
	return upsert(s, key,
		func(l *tracking.MealLog) bool {
			return l.ClientID != "" && l.ClientID == rec.ClientID
		},
		func(*tracking.MealLog) *tracking.MealLog { return nil },
		func() *tracking.MealLog { return rec },
	)
}

func appendHydrationLog(s *cache.Store, key cache.Key, rec *tracking.HydrationLog) bool {
	return upsert(s, key,
		func(l *tracking.HydrationLog) bool {
			return l.ClientID != "" && l.ClientID == rec.ClientID
		},
		func(*tracking.HydrationLog) *tracking.HydrationLog { return nil },
		func() *tracking.HydrationLog { return rec },
	)
}

// upsertWorkout applies the per-day completion rule: one session counts per
// (entity, day). Returns false for the duplicate-trigger no-op.
func upsertWorkout(s *cache.Store, key cache.Key, rec *tracking.WorkoutSession) bool {
	noop := false
	changed := upsert(s, key,
		func(l *tracking.WorkoutSession) bool {
			return l.EntityID == rec.EntityID && l.Date == rec.Date
		},
		func(l *tracking.WorkoutSession) *tracking.WorkoutSession {
			if l.Completed {
				noop = true
				return nil
			}
			clone := *l
			clone.Completed = true
			clone.Failed = false
			return &clone
		},
		func() *tracking.WorkoutSession { return rec },
	)
	if noop {
		return false
	}
	// An uncached list cannot witness a duplicate; treat it as changed so
	// stats still move.
	return changed || !listCached(s, key)
}

func listCached(s *cache.Store, key cache.Key) bool {
	_, ok := s.Get(key)
	return ok
}

func hasMealForDay(s *cache.Store, key cache.Key, day, excludeClientID string) bool {
	list, ok := cache.GetAs[[]*tracking.MealLog](s, key)
	if !ok {
		return false
	}
	for _, l := range list {
		if l.Date == day && l.ClientID != excludeClientID {
			return true
		}
	}
	return false
}

func hasHydrationForDay(s *cache.Store, key cache.Key, day, excludeClientID string) bool {
	list, ok := cache.GetAs[[]*tracking.HydrationLog](s, key)
	if !ok {
		return false
	}
	for _, l := range list {
		if l.Date == day && l.ClientID != excludeClientID {
			return true
		}
	}
	return false
}

// statsForUpdate returns a private copy of the (entity, type, period) stats
// record, synthesizing a zero-valued one when nothing is cached yet.
func statsForUpdate(s *cache.Store, entityID string, tt stats.TrackingType, period int) stats.TrackingStats {
	cur, ok := cache.GetAs[*stats.TrackingStats](s, cache.TrackingStatsKey(entityID, string(tt), period))
	if !ok {
		return stats.TrackingStats{EntityID: entityID, Type: tt, PeriodDays: period}
	}
	return *cur
}

// loggedDays advances the approximate active-day divisor: one more day when
// this is the first log of its day, clamped to the retention period, never
// zero.
func loggedDays(st *stats.TrackingStats, newDay bool) int {
	if newDay && st.DaysLogged < st.PeriodDays {
		st.DaysLogged++
	}
	if st.DaysLogged == 0 {
		st.DaysLogged = 1
	}
	return st.DaysLogged
}

func applyMealToStats(s *cache.Store, rec *tracking.MealLog, period int, newDay bool) {
	st := statsForUpdate(s, rec.EntityID, stats.TypeMeal, period)
	days := loggedDays(&st, newDay)

	st.TotalMealsLogged++
	st.TotalCalories += rec.Calories
	if rec.HealthRating == tracking.RatingHealthy {
		st.HealthyMeals++
	}
	st.AvgCaloriesPerDay = float64(st.TotalCalories) / float64(days)
	st.HealthyMealPercentage = float64(st.HealthyMeals) / float64(st.TotalMealsLogged) * 100

	s.Set(cache.TrackingStatsKey(rec.EntityID, string(stats.TypeMeal), period), &st)
}

func applyHydrationToStats(s *cache.Store, rec *tracking.HydrationLog, period int, newDay bool) {
	st := statsForUpdate(s, rec.EntityID, stats.TypeHydration, period)
	days := loggedDays(&st, newDay)

	st.TotalDrinks++
	st.TotalVolumeML += rec.VolumeML
	st.AvgVolumePerDayML = float64(st.TotalVolumeML) / float64(days)

	s.Set(cache.TrackingStatsKey(rec.EntityID, string(stats.TypeHydration), period), &st)
}

func applyWorkoutToStats(s *cache.Store, rec *tracking.WorkoutSession, period int) {
	// A workout always claims its day: one counted session per day.
	st := statsForUpdate(s, rec.EntityID, stats.TypeWorkout, period)
	days := loggedDays(&st, true)

	st.TotalSessions++
	st.TotalMinutes += rec.DurationMinutes
	st.AvgMinutesPerDay = float64(st.TotalMinutes) / float64(days)
	st.CompletionRate = float64(days) / float64(st.PeriodDays) * 100

	s.Set(cache.TrackingStatsKey(rec.EntityID, string(stats.TypeWorkout), period), &st)
}
