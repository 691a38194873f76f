package partner

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Partner is an accountability partner of the signed-in user.
type Partner struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Status    Status    `json:"status"`
	Since     time.Time `json:"since"`
	Pending   bool      `json:"pending,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

type AddPartnerRequest struct {
	PartnerID string `json:"partner_id"`
}
