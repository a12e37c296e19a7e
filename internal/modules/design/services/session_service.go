package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"unicode/utf8"

	"github.com/sergedenimes/denim-atelier-be/internal/core/ai"
	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
	"github.com/sergedenimes/denim-atelier-be/internal/core/prompt"
	"github.com/sergedenimes/denim-atelier-be/internal/core/storage"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/models"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/repositories"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/utils"
)

const (
	customInstructionsMin = 10
	customInstructionsMax = 500
	feedbackMin           = 20
)

// SessionService drives a design session through
// upload -> detect -> choose -> generate -> regenerate -> lock.
type SessionService struct {
	sessions    repositories.SessionRepo
	generations repositories.GenerationRepo
	provider    ai.Provider
	storage     *storage.Service
	prompts     *prompt.Builder
}

func NewSessionService(
	sessions repositories.SessionRepo,
	generations repositories.GenerationRepo,
	provider ai.Provider,
	storageService *storage.Service,
	prompts *prompt.Builder,
) *SessionService {
	return &SessionService{
		sessions:    sessions,
		generations: generations,
		provider:    provider,
		storage:     storageService,
		prompts:     prompts,
	}
}

// GenerateResult is returned by Generate/Regenerate. MaxGenerations rides
// along so callers can compute remaining attempts without owning the cap.
type GenerateResult struct {
	ImageURL        string `json:"image_url"`
	GenerationCount int    `json:"generation_count"`
	MaxGenerations  int    `json:"max_generations"`
}

// LockResult is the priced, final state of a locked design.
type LockResult struct {
	PricingCategory string `json:"pricing_category"`
	Price           int    `json:"price"`
	Label           string `json:"label"`
	Description     string `json:"description"`
}

// StartSession stores the uploaded garment photo and opens a session. The
// session id doubles as the resumable flow token: clients pass it back on
// every call and GetSession rebuilds their state from the server side.
func (s *SessionService) StartSession(ctx context.Context, file *multipart.FileHeader) (*models.DesignSession, error) {
	uploaded, err := s.storage.UploadMultipart(ctx, file, &storage.UploadOptions{
		Folder:   storage.FolderDesignAssets,
		PublicID: storage.NewObjectKey("clothing"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store garment photo: %w", err)
	}

	session := &models.DesignSession{
		GarmentImageURL: uploaded.SecureURL,
		Status:          models.StatusUploading,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	utils.LogInfo("design session started", map[string]interface{}{
		"session_id": session.ID.String(),
	})
	return session, nil
}

// GetSession resolves a session for resume.
func (s *SessionService) GetSession(id string) (*models.DesignSession, error) {
	return s.sessions.GetByID(id)
}

// ListGenerations returns the audit trail for a session, oldest first.
func (s *SessionService) ListGenerations(sessionID string) ([]models.Generation, error) {
	return s.generations.ListBySession(sessionID)
}

// Detect classifies the garment photo. Re-detection on an already-classified
// session is a no-op returning the stored result, so a failed provider call
// can never overwrite a good detection.
func (s *SessionService) Detect(ctx context.Context, sessionID string) (*ai.DetectionResult, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Detected() {
		return &ai.DetectionResult{
			Category:    *session.DetectedCategory,
			Description: *session.ClothingDescription,
			Raw:         []byte(session.DetectionPayload),
		}, nil
	}

	detection, err := s.provider.DetectGarment(ctx, session.GarmentImageURL)
	if err != nil {
		// Session stays as-is; the caller retries explicitly.
		return nil, err
	}

	err = s.sessions.Update(session.ID, map[string]interface{}{
		"detected_category":    detection.Category,
		"clothing_description": detection.Description,
		"detection_payload":    []byte(detection.Raw),
		"status":               models.StatusBrowsing,
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("garment detected", map[string]interface{}{
		"session_id": session.ID.String(),
		"category":   detection.Category,
		"confidence": detection.Confidence,
	})
	return detection, nil
}

// SelectStyle commits the session to a catalog treatment.
func (s *SessionService) SelectStyle(ctx context.Context, sessionID, rawStyleKey string) (*models.DesignSession, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsLocked {
		return nil, ErrAlreadyLocked
	}
	if session.Status != models.StatusBrowsing {
		return nil, invalidf("style can only be chosen while browsing, session is %s", session.Status)
	}

	styleKey, err := catalog.ParseStyle(rawStyleKey)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	if !catalog.IsStyleOffered(*session.DetectedCategory, styleKey) {
		return nil, invalidf("style %q is not offered for a %s", styleKey, session.DetectedCategory.Spoken())
	}

	err = s.sessions.Update(session.ID, map[string]interface{}{
		"path_type":            models.PathSample,
		"selected_sample_key":  styleKey,
		"custom_instructions":  nil,
		"custom_reference_url": nil,
	})
	if err != nil {
		return nil, err
	}
	return s.sessions.GetByID(sessionID)
}

// SubmitCustom commits the session to free-form instructions with an optional
// reference image.
func (s *SessionService) SubmitCustom(ctx context.Context, sessionID, instructions string, reference *multipart.FileHeader) (*models.DesignSession, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsLocked {
		return nil, ErrAlreadyLocked
	}
	if session.Status != models.StatusBrowsing {
		return nil, invalidf("custom instructions can only be submitted while browsing, session is %s", session.Status)
	}

	length := utf8.RuneCountInString(instructions)
	if length < customInstructionsMin {
		return nil, invalidf("instructions must be at least %d characters", customInstructionsMin)
	}
	if length > customInstructionsMax {
		return nil, invalidf("instructions must be %d characters or less", customInstructionsMax)
	}

	fields := map[string]interface{}{
		"path_type":           models.PathCustom,
		"custom_instructions": instructions,
		"selected_sample_key": nil,
	}

	if reference != nil {
		uploaded, err := s.storage.UploadMultipart(ctx, reference, &storage.UploadOptions{
			Folder:   storage.FolderDesignAssets,
			PublicID: storage.NewObjectKey("reference"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store reference image: %w", err)
		}
		fields["custom_reference_url"] = uploaded.SecureURL
	}

	if err := s.sessions.Update(session.ID, fields); err != nil {
		return nil, err
	}
	return s.sessions.GetByID(sessionID)
}

// Generate produces a design image for the chosen path.
func (s *SessionService) Generate(ctx context.Context, sessionID string) (*GenerateResult, error) {
	return s.generate(ctx, sessionID, "")
}

// Regenerate is Generate with customer feedback threaded into the prompt,
// referencing the previous output as the last image.
func (s *SessionService) Regenerate(ctx context.Context, sessionID, feedback string) (*GenerateResult, error) {
	if utf8.RuneCountInString(feedback) < feedbackMin {
		return nil, invalidf("feedback must be at least %d characters", feedbackMin)
	}
	return s.generate(ctx, sessionID, feedback)
}

func (s *SessionService) generate(ctx context.Context, sessionID, feedback string) (*GenerateResult, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}

	// All validation happens before any network call.
	if session.IsLocked {
		return nil, ErrAlreadyLocked
	}
	if !session.Detected() {
		return nil, invalidf("detection not completed")
	}
	if session.GenerationCount >= models.MaxGenerations {
		return nil, ErrMaxGenerations
	}
	if session.PathType == nil {
		return nil, invalidf("choose a style or submit custom instructions first")
	}
	if feedback != "" && session.CurrentDesignURL == nil {
		return nil, invalidf("no previous design to regenerate")
	}

	var promptText string
	var pricingCategory string
	params := ai.GenerationParams{GarmentImageURL: session.GarmentImageURL}

	switch *session.PathType {
	case models.PathSample:
		if session.SelectedSampleKey == nil {
			return nil, invalidf("no style selected")
		}
		promptText = s.prompts.Sample(*session.DetectedCategory, *session.ClothingDescription, *session.SelectedSampleKey)
		pricingCategory = string(*session.SelectedSampleKey)
	case models.PathCustom:
		if session.CustomInstructions == nil {
			return nil, invalidf("no custom instructions submitted")
		}
		hasReference := session.CustomReferenceURL != nil
		promptText = s.prompts.Custom(*session.DetectedCategory, *session.ClothingDescription, *session.CustomInstructions, hasReference)
		pricingCategory = string(catalog.StyleCustom)
		if hasReference {
			params.CustomReferenceURL = *session.CustomReferenceURL
		}
	default:
		return nil, invalidf("unknown generation path %q", *session.PathType)
	}

	// The previous design rides along only when feedback refers to it.
	if feedback != "" {
		promptText = prompt.AppendFeedback(promptText, feedback)
		params.PreviousDesignURL = *session.CurrentDesignURL
	}
	params.Prompt = promptText

	generated, err := s.provider.GenerateImage(ctx, params)
	if err != nil {
		return nil, err
	}

	// Store the image before touching the count, so a failed count update
	// never loses an already-generated design.
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(generated.Image), "design.png", &storage.UploadOptions{
		Folder:   storage.FolderDesignAssets,
		PublicID: storage.NewObjectKey(fmt.Sprintf("generated/%s", session.ID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store generated design: %w", err)
	}

	attempt, err := s.sessions.ClaimAttempt(session.ID, models.MaxGenerations)
	if err != nil {
		if err == repositories.ErrGenerationBudget {
			// Lost a race for the final slot; the stored image stays
			// orphaned in the bucket but is never referenced.
			return nil, ErrMaxGenerations
		}
		return nil, err
	}

	record := &models.Generation{
		SessionID:      session.ID,
		AttemptNumber:  attempt,
		PromptUsed:     promptText,
		ResultImageURL: uploaded.SecureURL,
	}
	if err := s.generations.Create(record); err != nil {
		return nil, err
	}

	err = s.sessions.Update(session.ID, map[string]interface{}{
		"current_design_url": uploaded.SecureURL,
		"pricing_category":   pricingCategory,
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("design generated", map[string]interface{}{
		"session_id": session.ID.String(),
		"attempt":    attempt,
		"path":       *session.PathType,
	})

	return &GenerateResult{
		ImageURL:        uploaded.SecureURL,
		GenerationCount: attempt,
		MaxGenerations:  models.MaxGenerations,
	}, nil
}

// Lock freezes the current design and computes its price. Price and label
// are persisted at first lock; calling Lock again is an error, never a
// recompute.
func (s *SessionService) Lock(ctx context.Context, sessionID string) (*LockResult, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsLocked {
		return nil, ErrAlreadyLocked
	}
	if session.CurrentDesignURL == nil {
		return nil, invalidf("no generated design to lock")
	}
	if session.DetectedCategory == nil {
		return nil, invalidf("detection not completed")
	}

	pricingKey := catalog.StyleCustom
	if session.PricingCategory != nil {
		pricingKey = catalog.StyleKey(*session.PricingCategory)
	}

	price, err := catalog.Price(pricingKey, *session.DetectedCategory)
	if err != nil {
		return nil, err
	}
	label := catalog.StyleName(pricingKey)

	err = s.sessions.Update(session.ID, map[string]interface{}{
		"is_locked":        true,
		"status":           models.StatusPriced,
		"pricing_category": string(pricingKey),
		"price":            price,
		"price_label":      label,
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("design locked", map[string]interface{}{
		"session_id": session.ID.String(),
		"price":      price,
	})

	return &LockResult{
		PricingCategory: string(pricingKey),
		Price:           price,
		Label:           label,
		Description:     fmt.Sprintf("%s customization on your %s", label, session.DetectedCategory.Spoken()),
	}, nil
}
