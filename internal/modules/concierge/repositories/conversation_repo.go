package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/models"
)

// ErrConversationNotFound is returned when a conversation id does not resolve.
var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepo interface {
	Create(conversation *models.Conversation) error
	GetByID(id string) (*models.Conversation, error)
	GetByUserID(userID uuid.UUID) (*models.Conversation, error)
	// ListAll returns every conversation for the admin view, most recently
	// user-active first.
	ListAll() ([]models.Conversation, error)
	UpdateStatus(id uuid.UUID, status models.ConversationStatus) error
	// Touch bumps updated_at. Called for user-authored messages only.
	Touch(id uuid.UUID, at time.Time) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *conversationRepo) GetByID(id string) (*models.Conversation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	var conversation models.Conversation
	err = r.db.Preload("User").First(&conversation, "id = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) GetByUserID(userID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("User").First(&conversation, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) ListAll() ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("User").
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepo) UpdateStatus(id uuid.UUID, status models.ConversationStatus) error {
	// UpdateColumn skips hooks so a status change never touches updated_at.
	res := r.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *conversationRepo) Touch(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}
