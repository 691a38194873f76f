package dashboard

import (
	"time"

	"habitFlowClient/internal/types/challenge"
	"habitFlowClient/internal/types/checkin"
	"habitFlowClient/internal/types/goal"
)

// HomeDashboard is the denormalized home-screen view. It is mutated as a
// side effect of nearly every other entity's mutations, so every speculative
// transform that touches it must guard against double counting.
type HomeDashboard struct {
	ActiveGoals      []*goal.Goal           `json:"active_goals"`
	ActiveChallenges []*challenge.Challenge `json:"active_challenges"`
	PendingToday     []PendingCheckIn       `json:"pending_today"`
	CurrentStreak    int                    `json:"current_streak"`
	TotalCheckIns    int                    `json:"total_check_ins"`
	WeeklyCompletion float64                `json:"weekly_completion"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// PendingCheckIn is one not-yet-completed scheduled item for today.
type PendingCheckIn struct {
	EntityID   string             `json:"entity_id"`
	EntityType checkin.EntityType `json:"entity_type"`
	Title      string             `json:"title"`
}
