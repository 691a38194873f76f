package streak

import "time"

// StreakInfo tracks consecutive-day activity for a goal or challenge.
// LongestStreak >= CurrentStreak holds at all times.
type StreakInfo struct {
	EntityID        string    `json:"entity_id"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastCheckInDate string    `json:"last_check_in_date,omitempty"` // YYYY-MM-DD, "" when never checked in
	UpdatedAt       time.Time `json:"updated_at"`
}
