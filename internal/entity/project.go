package entity

import (
	"time"
)

const (
	RoleOwner  = "Owner"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

type Project struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     string    `gorm:"not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Category    string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// ProjectMember is the single source of truth for authorization: every
// room join, message send and invitation action resolves to "does a row
// exist for (project, user)". At most one row per pair.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null"`
	UserID    string    `gorm:"uniqueIndex:idx_project_user;not null"`
	Role      string    `gorm:"size:20;not null"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

func (ProjectMember) TableName() string { return "project_members" }

// ProjectInvitation transitions pending -> accepted|declined exactly once.
// Uniqueness of (project, invitee) is enforced only while status='pending'
// via a partial index (see state.Migrate); re-inviting after a decline is
// allowed.
type ProjectInvitation struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"not null;index"`
	InviterID string    `gorm:"not null"`
	InviteeID string    `gorm:"not null;index"`
	Role      string    `gorm:"size:20;not null"`
	Message   string
	Status    string    `gorm:"size:20;not null;default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ProjectInvitation) TableName() string { return "project_invitations" }
