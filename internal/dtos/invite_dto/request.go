package invite_dto

type SendInvitationRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	InviteeID string `json:"invitee_id" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=Editor Viewer"`
	Message   string `json:"message" validate:"max=500"`
}

type RespondInvitationRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}
