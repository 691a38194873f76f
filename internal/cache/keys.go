package cache

import "strconv"

// Key constructors for every queryable resource. Pure functions: the same
// inputs always produce the same key, and a key built with an optional
// parameter left out ("all") stays distinct from every parameterized
// sibling. Parent segments come first so prefix invalidation cascades.

func GoalsKey() Key { return Key{"goals"} }

func GoalKey(goalID string) Key { return Key{"goals", goalID} }

func ChallengesKey() Key { return Key{"challenges"} }

func ChallengeKey(challengeID string) Key { return Key{"challenges", challengeID} }

func MembershipsKey() Key { return Key{"challenges", "memberships"} }

// CheckInsKey identifies the check-in list scoped to one entity, or the
// unfiltered per-type list when entityID is empty.
func CheckInsKey(entityType, entityID string) Key {
	if entityID == "" {
		return Key{"check-ins", entityType, "all"}
	}
	return Key{"check-ins", entityType, entityID}
}

func TodayCheckInsKey() Key { return Key{"check-ins", "today"} }

func StreakKey(entityID string) Key { return Key{"streak", entityID} }

func WeekProgressKey(entityID string) Key { return Key{"week-progress", entityID} }

func HabitChainKey(entityID string, periodDays int) Key {
	return Key{"habit-chain", entityID, strconv.Itoa(periodDays)}
}

// TrackingPrefix covers every tracking log and stat for an entity; use it
// with InvalidatePrefix to drop all of them at once.
func TrackingPrefix(entityID string) Key { return Key{"tracking", entityID} }

func TrackingLogsKey(entityID, trackingType string) Key {
	return Key{"tracking", entityID, trackingType, "logs"}
}

func TrackingStatsKey(entityID, trackingType string, periodDays int) Key {
	return Key{"tracking", entityID, trackingType, "stats", strconv.Itoa(periodDays)}
}

func DashboardKey() Key { return Key{"dashboard", "home"} }

func PartnersKey() Key { return Key{"partners"} }

func NudgesKey() Key { return Key{"nudges", "sent"} }

func AccountKey() Key { return Key{"account"} }
