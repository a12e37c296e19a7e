package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/models"
)

// ErrSessionNotFound is returned when a session id does not resolve.
var ErrSessionNotFound = errors.New("session not found")

// ErrGenerationBudget is returned when the conditional attempt claim finds no
// remaining budget (either genuinely exhausted or lost to a concurrent call).
var ErrGenerationBudget = errors.New("generation budget exhausted")

type SessionRepo interface {
	Create(session *models.DesignSession) error
	GetByID(id string) (*models.DesignSession, error)
	Update(id uuid.UUID, fields map[string]interface{}) error
	// ClaimAttempt atomically increments generation_count, but only while it
	// is below max and the session is unlocked. Returns the claimed attempt
	// number (1-based). A plain read-then-write would let two concurrent
	// regenerations blow past the cap.
	ClaimAttempt(id uuid.UUID, max int) (int, error)
	CountStale(olderThan time.Time) (int64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(session *models.DesignSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepo) GetByID(id string) (*models.DesignSession, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var session models.DesignSession
	if err := r.db.First(&session, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.Model(&models.DesignSession{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepo) ClaimAttempt(id uuid.UUID, max int) (int, error) {
	// RETURNING reads the claimed number in the same statement; a follow-up
	// SELECT could observe a later concurrent increment and hand two claims
	// the same attempt number.
	var claimed models.DesignSession
	res := r.db.Model(&claimed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "generation_count"}}}).
		Where("id = ? AND generation_count < ? AND is_locked = ?", id, max, false).
		Updates(map[string]interface{}{
			"generation_count": gorm.Expr("generation_count + 1"),
			"status":           models.StatusGenerating,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrGenerationBudget
	}
	return claimed.GenerationCount, nil
}

func (r *sessionRepo) CountStale(olderThan time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.DesignSession{}).
		Where("status <> ? AND updated_at < ?", models.StatusPriced, olderThan).
		Count(&count).Error
	return count, err
}
