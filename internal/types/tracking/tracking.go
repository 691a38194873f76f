package tracking

import "time"

type HealthRating string

const (
	RatingHealthy   HealthRating = "healthy"
	RatingNeutral   HealthRating = "neutral"
	RatingUnhealthy HealthRating = "unhealthy"
)

// MealLog is a single logged meal attached to a tracked goal.
type MealLog struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"client_id,omitempty"`
	EntityID     string       `json:"entity_id"`
	Date         string       `json:"date"` // YYYY-MM-DD local
	Name         string       `json:"name"`
	Calories     int          `json:"calories"`
	HealthRating HealthRating `json:"health_rating"`
	Pending      bool         `json:"pending,omitempty"`
	Failed       bool         `json:"failed,omitempty"`
	LoggedAt     time.Time    `json:"logged_at"`
}

// HydrationLog is a single logged drink.
type HydrationLog struct {
	ID       string    `json:"id"`
	ClientID string    `json:"client_id,omitempty"`
	EntityID string    `json:"entity_id"`
	Date     string    `json:"date"`
	VolumeML int       `json:"volume_ml"`
	Pending  bool      `json:"pending,omitempty"`
	Failed   bool      `json:"failed,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// WorkoutSession is one workout for a tracked goal. A day has at most one
// session that counts as "the" workout for streak purposes.
type WorkoutSession struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id,omitempty"`
	EntityID        string    `json:"entity_id"`
	Date            string    `json:"date"`
	Activity        string    `json:"activity"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	Pending         bool      `json:"pending,omitempty"`
	Failed          bool      `json:"failed,omitempty"`
	LoggedAt        time.Time `json:"logged_at"`
}

type LogMealRequest struct {
	EntityID     string       `json:"entity_id"`
	Date         string       `json:"date,omitempty"`
	Name         string       `json:"name"`
	Calories     int          `json:"calories"`
	HealthRating HealthRating `json:"health_rating"`
}

type LogHydrationRequest struct {
	EntityID string `json:"entity_id"`
	Date     string `json:"date,omitempty"`
	VolumeML int    `json:"volume_ml"`
}

type CompleteWorkoutRequest struct {
	EntityID        string `json:"entity_id"`
	Date            string `json:"date,omitempty"`
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration_minutes"`
}
