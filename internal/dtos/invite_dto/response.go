package invite_dto

import "time"

type InvitationResponse struct {
	ID        uint      `json:"invitation_id"`
	ProjectID uint      `json:"project_id"`
	InviterID string    `json:"inviter_id"`
	InviteeID string    `json:"invitee_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
