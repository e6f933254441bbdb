package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type RoleService struct {
	Roles  RoleStore
	Access *Access
}

func (s *RoleService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.WorkspaceRole, error) {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.ReadRole); err != nil {
		return nil, err
	}
	return s.Roles.ListRoles(ctx, workspaceID)
}

func (s *RoleService) Create(ctx context.Context, userID, workspaceID uuid.UUID, req transport.CreateRoleRequest) (*models.WorkspaceRole, error) {
	f := fieldErrors{}
	name := checkText(f, "roleName", req.RoleName, maxRoleNameLen)
	set, err := permissions.FromStrings(req.Permissions)
	if err != nil {
		f.add("permissions", err.Error())
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.CreateRole); err != nil {
		return nil, err
	}

	role := &models.WorkspaceRole{WorkspaceID: workspaceID, RoleName: name, Permissions: set.String()}
	if err := s.Roles.CreateRole(ctx, role); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, fail(ErrConflict, "role name already exists in this workspace")
		}
		return nil, err
	}
	logging.FromContext(ctx).Info("role_created", "workspace_id", workspaceID, "role_id", role.ID)
	return role, nil
}

// Update changes the name and/or permission set. The owner role is immutable.
func (s *RoleService) Update(ctx context.Context, userID, workspaceID, roleID uuid.UUID, req transport.UpdateRoleRequest) (*models.WorkspaceRole, error) {
	f := fieldErrors{}
	fields := map[string]any{}
	if req.RoleName != nil {
		fields["role_name"] = checkText(f, "roleName", *req.RoleName, maxRoleNameLen)
	}
	if req.Permissions != nil {
		set, err := permissions.FromStrings(*req.Permissions)
		if err != nil {
			f.add("permissions", err.Error())
		} else {
			fields["permissions"] = set.String()
		}
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.UpdateRole); err != nil {
		return nil, err
	}
	role, err := s.Roles.GetRole(ctx, workspaceID, roleID)
	if err != nil {
		return nil, notFound(err, "role not found")
	}
	if role.RoleName == permissions.RoleOwner {
		return nil, fail(ErrForbidden, "the owner role cannot be modified")
	}

	updated, err := s.Roles.UpdateRole(ctx, workspaceID, roleID, fields)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, fail(ErrConflict, "role name already exists in this workspace")
		}
		return nil, notFound(err, "role not found")
	}
	return updated, nil
}

func (s *RoleService) Delete(ctx context.Context, userID, workspaceID, roleID uuid.UUID) error {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.DeleteRole); err != nil {
		return err
	}
	role, err := s.Roles.GetRole(ctx, workspaceID, roleID)
	if err != nil {
		return notFound(err, "role not found")
	}
	if role.RoleName == permissions.RoleOwner {
		logging.FromContext(ctx).Warn("role_delete_failed", "status", 403, "reason", "owner role", "role_id", roleID)
		return fail(ErrForbidden, "the owner role cannot be deleted")
	}

	if err := s.Roles.DeleteRole(ctx, workspaceID, roleID); err != nil {
		if errors.Is(err, repo.ErrRoleInUse) {
			return fail(ErrConflict, "role is still assigned to members or pending invitations")
		}
		return notFound(err, "role not found")
	}
	return nil
}
