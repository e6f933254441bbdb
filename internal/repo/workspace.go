package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

type RoleSeed struct {
	Name        string
	Permissions string
}

type CreatedWorkspace struct {
	Workspace models.Workspace
	Roles     []models.WorkspaceRole
	Owner     models.WorkspaceMember
}

// CreateWorkspace inserts the workspace, its seeded roles and the owner's
// membership in one transaction. The first seed is the role given to the owner.
func (r *GormRepo) CreateWorkspace(ctx context.Context, ws *models.Workspace, seeds []RoleSeed) (*CreatedWorkspace, error) {
	if len(seeds) == 0 {
		return nil, errors.New("workspace needs at least one role seed")
	}
	out := &CreatedWorkspace{}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}

		roles := make([]models.WorkspaceRole, 0, len(seeds))
		for _, s := range seeds {
			roles = append(roles, models.WorkspaceRole{
				WorkspaceID: ws.ID,
				RoleName:    s.Name,
				Permissions: s.Permissions,
			})
		}
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}

		owner := models.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      ws.OwnerID,
			RoleID:      roles[0].ID,
			JoinedAt:    ws.CreatedAt,
		}
		if owner.JoinedAt.IsZero() {
			owner.JoinedAt = time.Now().UTC()
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		out.Workspace = *ws
		out.Roles = roles
		out.Owner = owner
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *GormRepo) GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ws).Error; err != nil {
		return nil, translate(err)
	}
	return &ws, nil
}

// ListWorkspacesForUser returns every workspace the user is a member of.
func (r *GormRepo) ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	var list []models.Workspace
	members := r.DB.WithContext(ctx).Model(&models.WorkspaceMember{}).Select("workspace_id").Where("user_id = ?", userID)
	err := r.DB.WithContext(ctx).
		Where("id IN (?)", members).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) RenameWorkspace(ctx context.Context, id uuid.UUID, name string) (*models.Workspace, error) {
	if err := r.DB.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", id).Update("name", name).Error; err != nil {
		return nil, err
	}
	return r.GetWorkspace(ctx, id)
}

// DeleteWorkspace removes the workspace's todos and statuses, then members,
// roles, invitations and finally the workspace row, all or nothing.
func (r *GormRepo) DeleteWorkspace(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []any{
			&models.Todo{},
			&models.Status{},
			&models.WorkspaceMember{},
			&models.WorkspaceRole{},
			&models.Invitation{},
		}
		for _, m := range steps {
			if err := tx.Where("workspace_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&models.Workspace{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
