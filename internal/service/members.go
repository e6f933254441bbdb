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

type MemberService struct {
	Workspaces WorkspaceStore
	Members    MemberStore
	Roles      RoleStore
	Access     *Access
}

func (s *MemberService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.ReadWorkspace); err != nil {
		return nil, err
	}
	return s.Members.ListMembers(ctx, workspaceID)
}

// ChangeRole moves a member to another role of the same workspace.
func (s *MemberService) ChangeRole(ctx context.Context, userID, workspaceID, memberID uuid.UUID, req transport.UpdateMemberRequest) (*models.WorkspaceMember, error) {
	f := fieldErrors{}
	roleID := checkID(f, "roleId", req.RoleID)
	if err := f.err(); err != nil {
		return nil, err
	}
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.UpdateRole); err != nil {
		return nil, err
	}

	member, err := s.ownedCheck(ctx, workspaceID, memberID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Roles.GetRole(ctx, workspaceID, roleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, invalidField("roleId", "role does not belong to this workspace")
		}
		return nil, err
	}

	updated, err := s.Members.UpdateMemberRole(ctx, workspaceID, member.ID, roleID)
	if err != nil {
		return nil, notFound(err, "member not found")
	}
	logging.FromContext(ctx).Info("member_role_changed", "workspace_id", workspaceID, "member_id", member.ID, "role_id", roleID)
	return updated, nil
}

func (s *MemberService) Remove(ctx context.Context, userID, workspaceID, memberID uuid.UUID) error {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.DeleteMember); err != nil {
		return err
	}
	member, err := s.ownedCheck(ctx, workspaceID, memberID)
	if err != nil {
		return err
	}
	if err := s.Members.DeleteMember(ctx, workspaceID, member.ID); err != nil {
		return notFound(err, "member not found")
	}
	logging.FromContext(ctx).Info("member_removed", "workspace_id", workspaceID, "member_id", member.ID)
	return nil
}

// ownedCheck loads the member and refuses to touch the workspace owner.
func (s *MemberService) ownedCheck(ctx context.Context, workspaceID, memberID uuid.UUID) (*models.WorkspaceMember, error) {
	member, err := s.Members.GetMemberByID(ctx, workspaceID, memberID)
	if err != nil {
		return nil, notFound(err, "member not found")
	}
	ws, err := s.Workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, notFound(err, "workspace not found")
	}
	if member.UserID == ws.OwnerID {
		return nil, fail(ErrForbidden, "the workspace owner's membership cannot be changed")
	}
	return member, nil
}
