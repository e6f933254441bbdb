package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func (r *GormRepo) ListRoles(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceRole, error) {
	var list []models.WorkspaceRole
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetRole only finds roles that belong to workspaceID.
func (r *GormRepo) GetRole(ctx context.Context, workspaceID, roleID uuid.UUID) (*models.WorkspaceRole, error) {
	var role models.WorkspaceRole
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, roleID).
		First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.WorkspaceRole) error {
	return translate(r.DB.WithContext(ctx).Create(role).Error)
}

func (r *GormRepo) UpdateRole(ctx context.Context, workspaceID, roleID uuid.UUID, fields map[string]any) (*models.WorkspaceRole, error) {
	if len(fields) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.WorkspaceRole{}).
			Where("workspace_id = ? AND id = ?", workspaceID, roleID).
			Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
	}
	return r.GetRole(ctx, workspaceID, roleID)
}

// DeleteRole refuses with ErrRoleInUse while a member holds the role or a
// pending invitation would grant it.
func (r *GormRepo) DeleteRole(ctx context.Context, workspaceID, roleID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var held int64
		if err := tx.Model(&models.WorkspaceMember{}).Where("role_id = ?", roleID).Count(&held).Error; err != nil {
			return err
		}
		var pending int64
		if err := tx.Model(&models.Invitation{}).
			Where("role_id = ? AND status = ?", roleID, models.InvitationPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if held > 0 || pending > 0 {
			return ErrRoleInUse
		}

		res := tx.Where("workspace_id = ? AND id = ?", workspaceID, roleID).Delete(&models.WorkspaceRole{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
