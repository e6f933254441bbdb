package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type WorkspaceService struct {
	Workspaces WorkspaceStore
	Members    MemberStore
	Access     *Access
}

type WorkspaceDetail struct {
	Workspace *models.Workspace
	Members   []models.WorkspaceMember
}

// Create inserts the workspace with the seeded roles and makes userID its
// owner member, atomically.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, req transport.WorkspaceRequest) (*repo.CreatedWorkspace, error) {
	l := logging.FromContext(ctx).With("svc", "workspace.create")

	f := fieldErrors{}
	name := checkText(f, "name", req.Name, maxNameLen)
	if err := f.err(); err != nil {
		return nil, err
	}

	templates := permissions.SeedRoles()
	seeds := make([]repo.RoleSeed, 0, len(templates))
	for _, t := range templates {
		seeds = append(seeds, repo.RoleSeed{Name: t.Name, Permissions: t.Permissions.String()})
	}

	out, err := s.Workspaces.CreateWorkspace(ctx, &models.Workspace{Name: name, OwnerID: userID}, seeds)
	if err != nil {
		l.Error("workspace_create_failed", "status", 500, "error", err)
		return nil, err
	}
	l.Info("workspace_created", "workspace_id", out.Workspace.ID, "owner_id", userID)
	return out, nil
}

func (s *WorkspaceService) List(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	return s.Workspaces.ListWorkspacesForUser(ctx, userID)
}

func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID uuid.UUID) (*WorkspaceDetail, error) {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.ReadWorkspace); err != nil {
		return nil, err
	}
	ws, err := s.Workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, notFound(err, "workspace not found")
	}
	members, err := s.Members.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &WorkspaceDetail{Workspace: ws, Members: members}, nil
}

func (s *WorkspaceService) Rename(ctx context.Context, userID, workspaceID uuid.UUID, req transport.WorkspaceRequest) (*models.Workspace, error) {
	f := fieldErrors{}
	name := checkText(f, "name", req.Name, maxNameLen)
	if err := f.err(); err != nil {
		return nil, err
	}
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.UpdateWorkspace); err != nil {
		return nil, err
	}
	ws, err := s.Workspaces.RenameWorkspace(ctx, workspaceID, name)
	if err != nil {
		return nil, notFound(err, "workspace not found")
	}
	return ws, nil
}

// Delete removes the workspace together with its todos, statuses, members,
// roles and invitations.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "workspace.delete")
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.DeleteWorkspace); err != nil {
		return err
	}
	if err := s.Workspaces.DeleteWorkspace(ctx, workspaceID); err != nil {
		return notFound(err, "workspace not found")
	}
	l.Info("workspace_deleted", "workspace_id", workspaceID, "user_id", userID)
	return nil
}
