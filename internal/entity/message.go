package entity

import (
	"time"
)

// ChatMessage rows form threads of exactly one level: a reply's
// ParentMessageID must point at a message whose own ParentMessageID is
// null. Reply counts are never stored; they are computed at read time.
type ChatMessage struct {
	ID              uint      `gorm:"primaryKey"`
	ProjectID       uint      `gorm:"not null;index"`
	UserID          string    `gorm:"not null"`
	Content         string    `gorm:"not null"`
	ParentMessageID *uint     `gorm:"index"`
	SentAt          time.Time `gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
