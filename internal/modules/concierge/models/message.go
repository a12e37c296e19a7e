package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SenderRole identifies who authored a message.
type SenderRole string

const (
	SenderUser  SenderRole = "user"
	SenderAdmin SenderRole = "admin"
)

// MessageType is the closed set of message kinds.
type MessageType string

const (
	MessageDesignUpload MessageType = "design_upload"
	MessageReview       MessageType = "review"
	MessageUserText     MessageType = "user_text"
	MessageAdminText    MessageType = "admin_text"
)

// Verdict is the admin's feasibility call on a design request.
type Verdict string

const (
	VerdictPossible    Verdict = "possible"
	VerdictDepends     Verdict = "depends"
	VerdictNotPossible Verdict = "not_possible"
)

// MaxReviewBodyLength caps the body of review messages.
const MaxReviewBodyLength = 500

// Message belongs to a conversation. Append-only; displayed oldest first.
// A review message always carries a verdict, and verdict "depends" always
// carries an explanation in the body.
type Message struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ConversationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderRole     SenderRole  `gorm:"type:text;not null" json:"sender_role"`
	MessageType    MessageType `gorm:"type:text;not null" json:"message_type"`
	Body           *string     `gorm:"type:text" json:"body"`
	FileURL        *string     `gorm:"type:text" json:"file_url"`
	FileName       *string     `gorm:"type:text" json:"file_name"`
	FileType       *string     `gorm:"type:text" json:"file_type"`
	LinkURL        *string     `gorm:"type:text" json:"link_url"`
	Verdict        *Verdict    `gorm:"type:text" json:"verdict"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`

	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// BeforeCreate sets UUID before creating
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
