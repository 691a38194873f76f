package goal

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

type Goal struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id,omitempty"`
	Title         string    `json:"title"`
	Status        Status    `json:"status"`
	ReminderTime  string    `json:"reminder_time,omitempty"` // "HH:MM", local
	ReminderDays  []string  `json:"reminder_days,omitempty"` // "mon".."sun"
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	Pending       bool      `json:"pending,omitempty"`
	Failed        bool      `json:"failed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateGoalRequest struct {
	Title        string   `json:"title"`
	ReminderTime string   `json:"reminder_time,omitempty"`
	ReminderDays []string `json:"reminder_days,omitempty"`
}

type UpdateGoalStatusRequest struct {
	Status Status `json:"status"`
}
