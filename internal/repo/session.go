package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

// CreateSession returns ErrConflict when the token digest is already taken;
// the caller generates a new token and retries.
func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) FindSessionByRefreshToken(ctx context.Context, tokenHash string) (*models.Session, error) {
	var s models.Session
	if err := r.DB.WithContext(ctx).Where("refresh_token = ?", tokenHash).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// RotateSession swaps the refresh token digest only while the row still holds
// oldHash and is active. Of two concurrent rotations of the same token at most
// one matches the guarded update; the other gets ErrSessionInactive.
func (r *GormRepo) RotateSession(ctx context.Context, id uuid.UUID, oldHash, newHash string, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Session
		if err := tx.Where("id = ?", id).First(&s).Error; err != nil {
			return translate(err)
		}
		if s.Revoked || s.Expired(now) || s.RefreshToken != oldHash {
			return ErrSessionInactive
		}

		res := tx.Model(&models.Session{}).
			Where("id = ? AND refresh_token = ? AND revoked = ?", id, oldHash, false).
			Update("refresh_token", newHash)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSessionInactive
		}
		return nil
	})
}

// RevokeSession is idempotent: revoking an already revoked session is not an
// error and keeps the original revoked_at. The bool reports whether this call
// performed the transition.
func (r *GormRepo) RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked = ?", id, false).
		Updates(map[string]any{"revoked": true, "revoked_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}
