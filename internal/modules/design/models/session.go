package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
)

// SessionStatus tracks where a design session sits in the flow.
type SessionStatus string

const (
	StatusUploading  SessionStatus = "uploading"
	StatusDetecting  SessionStatus = "detecting"
	StatusBrowsing   SessionStatus = "browsing"
	StatusGenerating SessionStatus = "generating"
	StatusLocked     SessionStatus = "locked"
	StatusPriced     SessionStatus = "priced"
)

// PathType is the branch the customer took after detection.
type PathType string

const (
	PathSample PathType = "sample"
	PathCustom PathType = "custom"
)

// MaxGenerations caps generate/regenerate attempts per session.
const MaxGenerations = 5

// DesignSession is one customization flow, created per uploaded garment photo.
// detected_category and clothing_description are set together or not at all;
// exactly one of selected_sample_key / custom_instructions is set once a path
// is chosen. Sessions are never deleted; abandoned ones just go stale.
type DesignSession struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	GarmentImageURL     string            `gorm:"type:text;not null" json:"garment_image_url"`
	DetectedCategory    *catalog.Category `gorm:"type:text" json:"detected_category"`
	ClothingDescription *string           `gorm:"type:text" json:"clothing_description"`
	DetectionPayload    datatypes.JSON    `gorm:"type:jsonb" json:"-"`
	PathType            *PathType         `gorm:"type:text" json:"path_type"`
	SelectedSampleKey   *catalog.StyleKey `gorm:"type:text" json:"selected_sample_key"`
	CustomInstructions  *string           `gorm:"type:text" json:"custom_instructions"`
	CustomReferenceURL  *string           `gorm:"type:text" json:"custom_reference_url"`
	CurrentDesignURL    *string           `gorm:"type:text" json:"current_design_url"`
	GenerationCount     int               `gorm:"not null;default:0" json:"generation_count"`
	IsLocked            bool              `gorm:"not null;default:false" json:"is_locked"`
	PricingCategory     *string           `gorm:"type:text" json:"pricing_category"`
	Price               *int              `json:"price"`
	PriceLabel          *string           `gorm:"type:text" json:"price_label"`
	Status              SessionStatus     `gorm:"type:text;not null;default:'uploading'" json:"status"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DesignSession) TableName() string {
	return "design_sessions"
}

// BeforeCreate sets UUID before creating
func (s *DesignSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Detected reports whether the detection step has completed.
func (s *DesignSession) Detected() bool {
	return s.DetectedCategory != nil && s.ClothingDescription != nil
}
