package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/models"
)

type GenerationRepo interface {
	Create(generation *models.Generation) error
	ListBySession(sessionID string) ([]models.Generation, error)
}

type generationRepo struct {
	db *gorm.DB
}

func NewGenerationRepo(db *gorm.DB) GenerationRepo {
	return &generationRepo{db: db}
}

func (r *generationRepo) Create(generation *models.Generation) error {
	return r.db.Create(generation).Error
}

func (r *generationRepo) ListBySession(sessionID string) ([]models.Generation, error) {
	uid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var generations []models.Generation
	err = r.db.Where("session_id = ?", uid).
		Order("attempt_number ASC").
		Find(&generations).Error
	return generations, err
}
