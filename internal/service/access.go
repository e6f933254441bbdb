package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
)

// Access answers whether a user may perform an action inside a workspace.
type Access struct {
	Members MemberStore
	Roles   RoleStore
}

// Authorize requires a membership row and an exact grant of perm on the role
// the member holds. A missing membership is ErrForbidden, never ErrNotFound.
func (a *Access) Authorize(ctx context.Context, userID, workspaceID uuid.UUID, perm permissions.Permission) (*models.WorkspaceMember, error) {
	l := logging.FromContext(ctx).With("svc", "access.authorize")

	member, err := a.Members.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("access_denied", "status", 403, "reason", "not a member", "workspace_id", workspaceID, "permission", perm)
			return nil, fail(ErrForbidden, "you are not a member of this workspace")
		}
		return nil, err
	}

	rows, err := a.Roles.ListRoles(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	roles := make([]permissions.Role, 0, len(rows))
	for _, r := range rows {
		set, err := permissions.Parse(r.Permissions)
		if err != nil {
			l.Warn("role_permissions_invalid", "role_id", r.ID, "error", err)
			set = permissions.Set{}
		}
		roles = append(roles, permissions.Role{ID: r.ID, Name: r.RoleName, Permissions: set})
	}

	if !permissions.HasPermission(&permissions.Member{RoleID: member.RoleID}, roles, perm) {
		l.Warn("access_denied", "status", 403, "reason", "missing permission", "workspace_id", workspaceID, "permission", perm)
		return nil, fail(ErrForbidden, "missing permission "+string(perm))
	}
	return member, nil
}

// authorizeScoped checks a todo or status: personal rows by owner equality,
// workspace rows through Authorize.
func (a *Access) authorizeScoped(ctx context.Context, userID uuid.UUID, owner, workspaceID *uuid.UUID, perm permissions.Permission) error {
	if workspaceID == nil {
		if owner == nil || *owner != userID {
			logging.FromContext(ctx).Warn("access_denied", "status", 403, "reason", "not the owner", "permission", perm)
			return fail(ErrForbidden, "you do not own this resource")
		}
		return nil
	}
	_, err := a.Authorize(ctx, userID, *workspaceID, perm)
	return err
}

// notFound maps repo.ErrNotFound to a service error with msg and passes
// everything else through.
func notFound(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fail(ErrNotFound, msg)
	}
	return err
}
