package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type StatusService struct {
	Statuses StatusStore
	Access   *Access
}

func (s *StatusService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateStatusRequest) (*models.Status, error) {
	f := fieldErrors{}
	title := checkText(f, "title", req.Title, maxNameLen)
	workspaceID := checkOptionalID(f, "workspaceId", req.WorkspaceID)
	if err := f.err(); err != nil {
		return nil, err
	}

	st := &models.Status{Title: title}
	if workspaceID != nil {
		if _, err := s.Access.Authorize(ctx, userID, *workspaceID, permissions.CreateStatus); err != nil {
			return nil, err
		}
		st.WorkspaceID = workspaceID
	} else {
		st.UserID = &userID
	}
	if err := s.Statuses.CreateStatus(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatusService) List(ctx context.Context, userID uuid.UUID, workspaceID *uuid.UUID) ([]models.Status, error) {
	scope := repo.Scope{UserID: &userID}
	if workspaceID != nil {
		if _, err := s.Access.Authorize(ctx, userID, *workspaceID, permissions.ReadStatus); err != nil {
			return nil, err
		}
		scope = repo.Scope{WorkspaceID: workspaceID}
	}
	return s.Statuses.ListStatuses(ctx, scope)
}

func (s *StatusService) load(ctx context.Context, userID, id uuid.UUID, perm permissions.Permission) (*models.Status, error) {
	st, err := s.Statuses.GetStatus(ctx, id)
	if err != nil {
		return nil, notFound(err, "status not found")
	}
	if err := s.Access.authorizeScoped(ctx, userID, st.UserID, st.WorkspaceID, perm); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatusService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Status, error) {
	return s.load(ctx, userID, id, permissions.ReadStatus)
}

func (s *StatusService) Rename(ctx context.Context, userID, id uuid.UUID, req transport.UpdateStatusRequest) (*models.Status, error) {
	f := fieldErrors{}
	title := checkText(f, "title", req.Title, maxNameLen)
	if err := f.err(); err != nil {
		return nil, err
	}
	st, err := s.load(ctx, userID, id, permissions.UpdateStatus)
	if err != nil {
		return nil, err
	}
	updated, err := s.Statuses.RenameStatus(ctx, st.ID, title)
	if err != nil {
		return nil, notFound(err, "status not found")
	}
	return updated, nil
}

// Delete detaches every todo using the status before removing it.
func (s *StatusService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	st, err := s.load(ctx, userID, id, permissions.DeleteStatus)
	if err != nil {
		return err
	}
	if err := s.Statuses.DeleteStatus(ctx, st.ID); err != nil {
		return notFound(err, "status not found")
	}
	return nil
}
