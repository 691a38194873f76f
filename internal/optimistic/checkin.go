package optimistic

import (
	"time"

	"github.com/oklog/ulid/v2"

	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/dates"
	"habitFlowClient/internal/types/checkin"
	"habitFlowClient/internal/types/dashboard"
	"habitFlowClient/internal/types/stats"
	"habitFlowClient/internal/types/streak"
)

// TouchedKeys is the full key set a mutation for this entity might touch:
// streak, week progress, habit chains for every retention period, today's
// check-ins, the entity's check-ins, the home dashboard, and tracking logs
// and stats for every tracking-type x period combination. The snapshot
// always captures the whole set; each transform writes its subset.
func TouchedKeys(entityID string, entityType checkin.EntityType) []cache.Key {
	keys := []cache.Key{
		cache.StreakKey(entityID),
		cache.WeekProgressKey(entityID),
		cache.TodayCheckInsKey(),
		cache.CheckInsKey(string(entityType), entityID),
		cache.DashboardKey(),
	}
	for _, period := range stats.Periods {
		keys = append(keys, cache.HabitChainKey(entityID, period))
	}
	for _, tt := range stats.Types {
		keys = append(keys, cache.TrackingLogsKey(entityID, string(tt)))
		for _, period := range stats.Periods {
			keys = append(keys, cache.TrackingStatsKey(entityID, string(tt), period))
		}
	}
	return keys
}

// NewPendingCheckIn synthesizes the placeholder record for a check-in that
// has not been confirmed yet. The client identifier is a ULID, so it can
// never collide with a server-assigned UUID, and Pending is the explicit
// tag the reconciler filters on.
func NewPendingCheckIn(req *checkin.CreateCheckInRequest, day string) *checkin.CheckIn {
	return &checkin.CheckIn{
		ClientID:    ulid.Make().String(),
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		Date:        day,
		Completed:   true,
		IsCheckedIn: true,
		Mood:        req.Mood,
		Notes:       req.Notes,
		PhotoURL:    req.PhotoURL,
		Pending:     true,
		CreatedAt:   time.Now(),
	}
}

// CheckInAction builds the optimistic action for logging rec. today is the
// current local calendar day; a record dated anything else leaves streak,
// today's check-ins, and the dashboard untouched.
func CheckInAction(rec *checkin.CheckIn, today string) Action {
	// Tracks, per list, whether speculate appended a placeholder (as opposed
	// to completing an existing record in place). Only appended placeholders
	// are re-surfaced as failed after a rollback.
	synthesized := &synthesizedLists{}

	return Action{
		Keys: TouchedKeys(rec.EntityID, rec.EntityType),
		Speculate: func(s *cache.Store) {
			speculateCheckIn(s, rec, today, synthesized)
		},
		Reconcile: func(s *cache.Store, confirmed any) {
			c, ok := confirmed.(*checkin.CheckIn)
			if !ok || c == nil {
				return
			}
			reconcileCheckIn(s, rec, c, today)
		},
		MarkFailed: func(s *cache.Store) {
			failCheckIn(s, rec, today, synthesized)
		},
	}
}

type synthesizedLists struct {
	entity bool
	today  bool
}

func speculateCheckIn(s *cache.Store, rec *checkin.CheckIn, today string, synthesized *synthesizedLists) {
	entityKey := cache.CheckInsKey(string(rec.EntityType), rec.EntityID)
	synthesized.entity = !listHasDay(s, entityKey, rec.EntityID, rec.Date)
	upsertCheckIn(s, entityKey, rec)

	if rec.Date != today {
		return
	}

	todayKey := cache.TodayCheckInsKey()
	synthesized.today = !listHasDay(s, todayKey, rec.EntityID, rec.Date)
	upsertCheckIn(s, todayKey, rec)
	bumpStreak(s, rec.EntityID, today)
	markWeekDay(s, rec.EntityID, today)
	for _, period := range stats.Periods {
		markChainDay(s, rec.EntityID, period, today)
	}
	completeDashboardItem(s, rec.EntityID)
}

func listHasDay(s *cache.Store, key cache.Key, entityID, day string) bool {
	list, ok := cache.GetAs[[]*checkin.CheckIn](s, key)
	if !ok {
		return true // uncached: nothing is synthesized either way
	}
	for _, c := range list {
		if c.EntityID == entityID && c.Date == day {
			return true
		}
	}
	return false
}

// upsertCheckIn applies the find-or-update-or-append rule on a check-in
// list: an already-completed record for the same (entity, day) is a strict
// no-op, an incomplete one is completed in place, and a missing one gets the
// pending placeholder appended.
func upsertCheckIn(s *cache.Store, key cache.Key, rec *checkin.CheckIn) {
	upsert(s, key,
		func(c *checkin.CheckIn) bool {
			return c.EntityID == rec.EntityID && c.Date == rec.Date
		},
		func(c *checkin.CheckIn) *checkin.CheckIn {
			if c.Completed {
				return nil
			}
			clone := *c
			clone.Completed = true
			clone.IsCheckedIn = true
			clone.Failed = false
			return &clone
		},
		func() *checkin.CheckIn { return rec },
	)
}

// bumpStreak applies the streak transition rule for a check-in landing on
// today: unchanged when today already counted, incremented when the last
// check-in was exactly yesterday, reset to 1 otherwise. The longest streak
// absorbs the new current unconditionally.
func bumpStreak(s *cache.Store, entityID, today string) {
	key := cache.StreakKey(entityID)

	cur, ok := cache.GetAs[*streak.StreakInfo](s, key)
	if !ok {
		s.Set(key, &streak.StreakInfo{
			EntityID:        entityID,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastCheckInDate: today,
		})
		return
	}
	if cur.LastCheckInDate == today {
		return
	}

	next := *cur
	if dates.IsYesterday(cur.LastCheckInDate, today) {
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastCheckInDate = today
	s.Set(key, &next)
}

func markWeekDay(s *cache.Store, entityID, today string) {
	key := cache.WeekProgressKey(entityID)
	wp, ok := cache.GetAs[*stats.WeekProgress](s, key)
	if !ok {
		return
	}

	next := *wp
	next.Days = make([]stats.DayMark, len(wp.Days))
	copy(next.Days, wp.Days)

	for i, day := range next.Days {
		if day.Date != today {
			continue
		}
		if day.Completed {
			return
		}
		next.Days[i].Completed = true
		next.DaysCompleted++
		s.Set(key, &next)
		return
	}

	next.Days = append(next.Days, stats.DayMark{Date: today, Completed: true})
	next.DaysCompleted++
	s.Set(key, &next)
}

func markChainDay(s *cache.Store, entityID string, periodDays int, today string) {
	key := cache.HabitChainKey(entityID, periodDays)
	chain, ok := cache.GetAs[*stats.HabitChain](s, key)
	if !ok {
		return
	}

	next := *chain
	next.Days = make([]stats.DayMark, len(chain.Days))
	copy(next.Days, chain.Days)

	for i, day := range next.Days {
		if day.Date != today {
			continue
		}
		if day.Completed {
			return
		}
		next.Days[i].Completed = true
		s.Set(key, &next)
		return
	}

	next.Days = append(next.Days, stats.DayMark{Date: today, Completed: true})
	s.Set(key, &next)
}

// completeDashboardItem removes the entity's pending item from today's list
// and bumps the rollup counters by exactly one. When no pending item exists
// (the action was not part of today's scheduled items, or it already ran)
// the dashboard is left untouched to guard against double counting.
func completeDashboardItem(s *cache.Store, entityID string) {
	key := cache.DashboardKey()
	d, ok := cache.GetAs[*dashboard.HomeDashboard](s, key)
	if !ok {
		return
	}

	idx := -1
	for i, item := range d.PendingToday {
		if item.EntityID == entityID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	next := *d
	next.PendingToday = make([]dashboard.PendingCheckIn, 0, len(d.PendingToday)-1)
	next.PendingToday = append(next.PendingToday, d.PendingToday[:idx]...)
	next.PendingToday = append(next.PendingToday, d.PendingToday[idx+1:]...)
	next.CurrentStreak++
	next.TotalCheckIns++
	s.Set(key, &next)
}

func reconcileCheckIn(s *cache.Store, rec, confirmed *checkin.CheckIn, today string) {
	drop := func(c *checkin.CheckIn) bool {
		return c.Pending || c.ID == confirmed.ID ||
			(c.ClientID != "" && c.ClientID == confirmed.ClientID)
	}

	reconcileList(s, cache.CheckInsKey(string(rec.EntityType), rec.EntityID), drop, confirmed)
	if confirmed.Date == today {
		reconcileList(s, cache.TodayCheckInsKey(), drop, confirmed)
	}

	// Aggregates depend on history the client cannot see; let the server
	// recompute them.
	invalidateEntityAggregates(s, rec.EntityID)
}

func invalidateEntityAggregates(s *cache.Store, entityID string) {
	s.Invalidate(
		cache.StreakKey(entityID),
		cache.WeekProgressKey(entityID),
		cache.DashboardKey(),
	)
	for _, period := range stats.Periods {
		s.Invalidate(cache.HabitChainKey(entityID, period))
	}
}

func failCheckIn(s *cache.Store, rec *checkin.CheckIn, today string, synthesized *synthesizedLists) {
	failed := *rec
	failed.Failed = true

	match := func(c *checkin.CheckIn) bool {
		return c.ClientID != "" && c.ClientID == rec.ClientID
	}
	if synthesized.entity {
		replaceFailed(s, cache.CheckInsKey(string(rec.EntityType), rec.EntityID), match, &failed)
	}
	if rec.Date == today && synthesized.today {
		replaceFailed(s, cache.TodayCheckInsKey(), match, &failed)
	}
}
