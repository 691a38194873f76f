package nudge

import "time"

// Nudge is a short encouragement sent to an accountability partner.
type Nudge struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id,omitempty"`
	PartnerID string    `json:"partner_id"`
	Message   string    `json:"message"`
	Pending   bool      `json:"pending,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

type SendNudgeRequest struct {
	PartnerID string `json:"partner_id"`
	Message   string `json:"message"`
}
