package stats

import "time"

type TrackingType string

const (
	TypeWorkout   TrackingType = "workout"
	TypeMeal      TrackingType = "meal"
	TypeHydration TrackingType = "hydration"
)

// Types lists every tracking type an entity can carry stats for.
var Types = []TrackingType{TypeWorkout, TypeMeal, TypeHydration}

// Periods are the retention windows (in days) the backend keeps per-entity
// aggregates for.
var Periods = []int{7, 30, 90}

// TrackingStats holds the aggregate counters for one (entity, type, period)
// triple. Derived fields (averages, percentages) are always recomputed from
// the totals; speculative client-side updates of those fields are
// best-effort and replaced by server figures on the next refetch.
type TrackingStats struct {
	EntityID   string       `json:"entity_id"`
	Type       TrackingType `json:"type"`
	PeriodDays int          `json:"period_days"`
	DaysLogged int          `json:"days_logged"`

	// Workout.
	TotalSessions    int     `json:"total_sessions"`
	TotalMinutes     int     `json:"total_minutes"`
	AvgMinutesPerDay float64 `json:"avg_minutes_per_day"`
	CompletionRate   float64 `json:"completion_rate"`

	// Meal.
	TotalMealsLogged      int     `json:"total_meals_logged"`
	TotalCalories         int     `json:"total_calories"`
	HealthyMeals          int     `json:"healthy_meals"`
	AvgCaloriesPerDay     float64 `json:"avg_calories_per_day"`
	HealthyMealPercentage float64 `json:"healthy_meal_percentage"`

	// Hydration.
	TotalDrinks       int     `json:"total_drinks"`
	TotalVolumeML     int     `json:"total_volume_ml"`
	AvgVolumePerDayML float64 `json:"avg_volume_per_day_ml"`

	UpdatedAt time.Time `json:"updated_at"`
}

// WeekProgress is the entity's current-week completion picture.
type WeekProgress struct {
	EntityID      string    `json:"entity_id"`
	WeekStart     string    `json:"week_start"` // YYYY-MM-DD, Monday
	DaysCompleted int       `json:"days_completed"`
	TargetDays    int       `json:"target_days"`
	Days          []DayMark `json:"days"`
}

type DayMark struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitChain is the rolling N-day completion chain shown on entity detail
// screens, one per retention period.
type HabitChain struct {
	EntityID   string    `json:"entity_id"`
	PeriodDays int       `json:"period_days"`
	Days       []DayMark `json:"days"`
}
