package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func (r *GormRepo) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	return translate(r.DB.WithContext(ctx).Create(inv).Error)
}

func (r *GormRepo) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *GormRepo) ListInvitations(ctx context.Context, workspaceID uuid.UUID) ([]models.Invitation, error) {
	var list []models.Invitation
	err := r.DB.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("invited_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepo) ListPendingInvitationsByEmail(ctx context.Context, email string, now time.Time) ([]models.Invitation, error) {
	var list []models.Invitation
	err := r.DB.WithContext(ctx).
		Where("email = ? AND status = ?", email, models.InvitationPending).
		Order("invited_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	open := list[:0]
	for _, inv := range list {
		if !inv.Expired(now) {
			open = append(open, inv)
		}
	}
	return open, nil
}

func (r *GormRepo) DeleteInvitation(ctx context.Context, workspaceID, invitationID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, invitationID).
		Delete(&models.Invitation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveInvitation moves a pending invitation to status and, for an
// acceptance, creates the membership in the same transaction. The status
// update is guarded on status = pending so a token resolves exactly once.
func (r *GormRepo) ResolveInvitation(ctx context.Context, id uuid.UUID, status string, userID uuid.UUID, now time.Time) (*models.Invitation, *models.WorkspaceMember, error) {
	var (
		inv    models.Invitation
		member *models.WorkspaceMember
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&inv).Error; err != nil {
			return err
		}
		if inv.Status != models.InvitationPending || inv.Expired(now) {
			return ErrInvitationClosed
		}

		fields := map[string]any{"status": status, "updated_at": now}
		if status == models.InvitationAccepted {
			fields["accepted_at"] = now
		}
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", id, models.InvitationPending).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvitationClosed
		}

		if status == models.InvitationAccepted {
			member = &models.WorkspaceMember{
				WorkspaceID: inv.WorkspaceID,
				UserID:      userID,
				RoleID:      inv.RoleID,
				JoinedAt:    now,
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).First(&inv).Error
	})
	if err != nil {
		return nil, nil, translate(err)
	}
	return &inv, member, nil
}
