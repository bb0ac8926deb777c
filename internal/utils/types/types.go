package types

// Session is stored in Redis at login under session:<userID>:<fingerprint>
// and checked again on every websocket handshake.
type Session struct {
	UserId      string `json:"user_id"`
	Fingerprint string `json:"fingerprint"`
	IssueAt     int64  `json:"issue_at"`
	ExpireAt    int64  `json:"expire_at"`
	Status      string `json:"status"`
}

// NotifyInvitationPayload is the job body for invitation notification
// jobs. Delivery targets live connections only; there is no persisted
// notification inbox.
type NotifyInvitationPayload struct {
	InvitationID uint   `json:"invitation_id"`
	ProjectID    uint   `json:"project_id"`
	ProjectName  string `json:"project_name"`
	InviterID    string `json:"inviter_id"`
	InviteeID    string `json:"invitee_id"`
	Role         string `json:"role"`
	Message      string `json:"message,omitempty"`
	Status       string `json:"status"`
}
