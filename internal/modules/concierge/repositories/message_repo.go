package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/models"
)

type MessageRepo interface {
	Create(message *models.Message) error
	ListByConversation(conversationID string) ([]models.Message, error)
	HasReviewWithVerdict(conversationID uuid.UUID, verdict models.Verdict) (bool, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepo) ListByConversation(conversationID string) ([]models.Message, error) {
	uid, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	var messages []models.Message
	err = r.db.Where("conversation_id = ?", uid).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepo) HasReviewWithVerdict(conversationID uuid.UUID, verdict models.Verdict) (bool, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND message_type = ? AND verdict = ?",
			conversationID, models.MessageReview, verdict).
		Count(&count).Error
	return count > 0, err
}
