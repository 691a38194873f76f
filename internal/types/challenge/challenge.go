package challenge

import "time"

type GoalType string

const (
	GoalDailyStreak GoalType = "daily_streak"
	GoalWeeklyDays  GoalType = "weekly_days"
	GoalPerfectWeek GoalType = "perfect_week"
)

type Challenge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	GoalType    GoalType  `json:"goal_type"`
	GoalValue   int       `json:"goal_value"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership is the caller's participation state in one challenge.
type Membership struct {
	ID          string     `json:"id"`
	ChallengeID string     `json:"challenge_id"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	JoinedAt    time.Time  `json:"joined_at"`
	Pending     bool       `json:"pending,omitempty"`
	Failed      bool       `json:"failed,omitempty"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}
