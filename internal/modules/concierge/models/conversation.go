package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationStatus tracks the order decision. Both decided states are terminal.
type ConversationStatus string

const (
	ConversationOpen     ConversationStatus = "open"
	ConversationAccepted ConversationStatus = "order_accepted"
	ConversationDeclined ConversationStatus = "order_declined"
)

// Conversation is one user's ongoing design-request dialogue with the admin.
// UpdatedAt is managed by hand: only user-authored messages bump it, so admin
// replies never resurface a conversation as "new" in the admin's list.
type Conversation struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Status    ConversationStatus `gorm:"type:text;not null;default:'open'" json:"status"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime:false" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate sets UUID before creating
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	return nil
}

// Decided reports whether the conversation reached a terminal order state.
func (c *Conversation) Decided() bool {
	return c.Status != ConversationOpen
}
