package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation is an append-only audit record of one generation attempt, with
// the exact prompt that went over the wire. Never updated or deleted.
type Generation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	AttemptNumber  int       `gorm:"not null" json:"attempt_number"`
	PromptUsed     string    `gorm:"type:text;not null" json:"prompt_used"`
	ResultImageURL string    `gorm:"type:text;not null" json:"result_image_url"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Session DesignSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Generation) TableName() string {
	return "generations"
}

// BeforeCreate sets UUID before creating
func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
