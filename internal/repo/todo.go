package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/util"
)

// Scope selects personal rows (UserID) or workspace rows (WorkspaceID).
type Scope struct {
	UserID      *uuid.UUID
	WorkspaceID *uuid.UUID
}

type TodoFilter struct {
	Scope
	StatusID *uuid.UUID
	Page     util.Page
}

func applyScope(q *gorm.DB, s Scope) *gorm.DB {
	if s.WorkspaceID != nil {
		return q.Where("workspace_id = ?", *s.WorkspaceID)
	}
	var owner uuid.UUID
	if s.UserID != nil {
		owner = *s.UserID
	}
	return q.Where("user_id = ? AND workspace_id IS NULL", owner)
}

func (r *GormRepo) CreateTodo(ctx context.Context, t *models.Todo) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) GetTodo(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	var t models.Todo
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *GormRepo) ListTodos(ctx context.Context, f TodoFilter) ([]models.Todo, error) {
	q := applyScope(r.DB.WithContext(ctx), f.Scope)
	if f.StatusID != nil {
		q = q.Where("status_id = ?", *f.StatusID)
	}

	if f.Page.Limit > 0 {
		q = q.Offset(f.Page.Offset).Limit(f.Page.Limit)
	}

	var list []models.Todo
	if err := q.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) UpdateTodo(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Todo, error) {
	if len(fields) > 0 {
		if err := r.DB.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetTodo(ctx, id)
}

func (r *GormRepo) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Todo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
