package session

import (
	"context"
	"time"

	"recipe-feed/entities"

	"gorm.io/gorm"
)

type (
	SessionRepository interface {
		CreateSession(ctx context.Context, session *entities.Session) error
		GetSessionByID(ctx context.Context, id string) (*entities.Session, error)
		UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error
		DeleteSession(ctx context.Context, id string) error
		GetSessionIDsByUser(ctx context.Context, userID string) ([]string, error)
		DeleteSessionsByUser(ctx context.Context, userID string) error
		DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
	}

	sessionRepository struct {
		db *gorm.DB
	}
)

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *entities.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetSessionByID loads the session together with its user.
func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (*entities.Session, error) {
	var session entities.Session
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Session{}).Error
}

func (r *sessionRepository) GetSessionIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sessionRepository) DeleteSessionsByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.Session{}).Error
}

func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entities.Session{})
	return res.RowsAffected, res.Error
}
