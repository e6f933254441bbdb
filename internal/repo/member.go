package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func (r *GormRepo) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormRepo) GetMemberByID(ctx context.Context, workspaceID, memberID uuid.UUID) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, memberID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormRepo) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	var list []models.WorkspaceMember
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) UpdateMemberRole(ctx context.Context, workspaceID, memberID, roleID uuid.UUID) (*models.WorkspaceMember, error) {
	err := r.DB.WithContext(ctx).Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND id = ?", workspaceID, memberID).
		Update("role_id", roleID).Error
	if err != nil {
		return nil, err
	}
	return r.GetMemberByID(ctx, workspaceID, memberID)
}

func (r *GormRepo) DeleteMember(ctx context.Context, workspaceID, memberID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, memberID).
		Delete(&models.WorkspaceMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
