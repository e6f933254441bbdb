package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func (r *GormRepo) CreateStatus(ctx context.Context, s *models.Status) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) GetStatus(ctx context.Context, id uuid.UUID) (*models.Status, error) {
	var s models.Status
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormRepo) ListStatuses(ctx context.Context, scope Scope) ([]models.Status, error) {
	var list []models.Status
	if err := applyScope(r.DB.WithContext(ctx), scope).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) RenameStatus(ctx context.Context, id uuid.UUID, title string) (*models.Status, error) {
	if err := r.DB.WithContext(ctx).Model(&models.Status{}).Where("id = ?", id).Update("title", title).Error; err != nil {
		return nil, err
	}
	return r.GetStatus(ctx, id)
}

// DeleteStatus detaches todos that reference the status before removing it.
func (r *GormRepo) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Todo{}).Where("status_id = ?", id).Update("status_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Status{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
