package repositories

import (
	"context"

	"corebank/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Replace deletes any existing sessions for the user and inserts the new one
// in a single database transaction, so the old session is gone before the
// new token is resolvable.
func (r *sessionRepository) Replace(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", session.UserID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

// GetByTokenHash gets a session by its token hash
func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByTokenHash deletes a session by its token hash. Revocation is a
// plain delete; an absent row means the session is revoked.
func (r *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
}

// DeleteAllByUserID deletes all sessions for a user
func (r *sessionRepository) DeleteAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}
