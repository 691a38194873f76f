package checkin

import "time"

// EntityType says what kind of trackable a check-in belongs to.
type EntityType string

const (
	EntityGoal      EntityType = "goal"
	EntityChallenge EntityType = "challenge"
)

// CheckIn is one completed (or pending) daily action for an entity. Pending
// records exist only on the client; ClientID is the client-generated ULID
// that survives until the server assigns a real ID.
type CheckIn struct {
	ID          string     `json:"id,omitempty"`
	ClientID    string     `json:"client_id,omitempty"`
	EntityID    string     `json:"entity_id"`
	EntityType  EntityType `json:"entity_type"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	IsCheckedIn bool       `json:"is_checked_in"`
	Mood        *string    `json:"mood,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	Pending     bool       `json:"pending,omitempty"`
	Failed      bool       `json:"failed,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateCheckInRequest struct {
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Date       string     `json:"date,omitempty"`
	Mood       *string    `json:"mood,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
}
