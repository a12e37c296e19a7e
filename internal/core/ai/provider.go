package ai

import (
	"context"
	"encoding/json"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
)

// DetectionResult is the vision model's verdict on an uploaded garment photo.
type DetectionResult struct {
	Category    catalog.Category `json:"category"`
	Confidence  string           `json:"confidence"`
	Description string           `json:"description"`

	// Raw is the provider's JSON payload as received, kept for auditing.
	Raw json.RawMessage `json:"-"`
}

// GenerationParams carries everything one image-edit call needs. Image order
// matters: the prompt refers to images positionally ("the second image",
// "the last image"), so the garment always rides first, the custom reference
// second when present, and the previous design last when feedback is in play.
type GenerationParams struct {
	GarmentImageURL    string
	Prompt             string
	CustomReferenceURL string
	PreviousDesignURL  string
}

// GenerationResult holds the generated design as raw PNG bytes; persisting it
// is the caller's job.
type GenerationResult struct {
	Image []byte
}

// Provider isolates all network interaction with the vision/image model.
type Provider interface {
	DetectGarment(ctx context.Context, imageURL string) (*DetectionResult, error)
	GenerateImage(ctx context.Context, params GenerationParams) (*GenerationResult, error)
	GetProviderName() string
}
