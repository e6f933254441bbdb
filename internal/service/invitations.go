package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/mailqueue"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type InvitationService struct {
	Invitations InvitationStore
	Workspaces  WorkspaceStore
	Roles       RoleStore
	Access      *Access
	Mailer      Mailer
	TTL         time.Duration
	BaseURL     string

	now func() time.Time
}

func (s *InvitationService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// Create stores a pending invitation and queues the invitation email. The
// email is fire-and-forget: a broker outage never fails the request.
func (s *InvitationService) Create(ctx context.Context, userID, workspaceID uuid.UUID, req transport.CreateInvitationRequest) (*models.Invitation, error) {
	l := logging.FromContext(ctx).With("svc", "invitation.create")

	f := fieldErrors{}
	email := checkEmail(f, "email", req.Email)
	roleID := checkID(f, "roleId", req.RoleID)
	if err := f.err(); err != nil {
		return nil, err
	}
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.CreateInvitation); err != nil {
		return nil, err
	}
	if _, err := s.Roles.GetRole(ctx, workspaceID, roleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, invalidField("roleId", "role does not belong to this workspace")
		}
		return nil, err
	}
	ws, err := s.Workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, notFound(err, "workspace not found")
	}

	now := s.clock()
	var inv *models.Invitation
	for attempt := 1; ; attempt++ {
		token, err := tokens.NewInvitationToken()
		if err != nil {
			return nil, err
		}
		inv = &models.Invitation{
			WorkspaceID: workspaceID,
			Email:       email,
			Token:       token,
			RoleID:      roleID,
			Status:      models.InvitationPending,
			InvitedAt:   now,
			ExpiredAt:   now.Add(s.TTL),
		}
		err = s.Invitations.CreateInvitation(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrConflict) || attempt == tokenAttempts {
			return nil, fmt.Errorf("create invitation: %w", err)
		}
	}

	if s.Mailer != nil {
		s.Mailer.Dispatch(s.invitationEmail(ws, inv))
	} else {
		l.Warn("invitation_email_skipped", "reason", "no mailer configured")
	}
	l.Info("invitation_created", "workspace_id", workspaceID, "invitation_id", inv.ID)
	return inv, nil
}

func (s *InvitationService) invitationEmail(ws *models.Workspace, inv *models.Invitation) mailqueue.EmailMessage {
	link := fmt.Sprintf("%s/workspace/%s/invitations?token=%s", strings.TrimRight(s.BaseURL, "/"), ws.ID, inv.Token)
	return mailqueue.EmailMessage{
		To:      inv.Email,
		Subject: fmt.Sprintf("You are invited to %s", ws.Name),
		Text: fmt.Sprintf("You have been invited to join the workspace %q.\n\nOpen this link to accept or decline: %s\n\nThe invitation expires on %s.",
			ws.Name, link, inv.ExpiredAt.Format(time.RFC1123)),
	}
}

func (s *InvitationService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.Invitation, error) {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.ReadInvitation); err != nil {
		return nil, err
	}
	return s.Invitations.ListInvitations(ctx, workspaceID)
}

// lookup resolves a token for its invitee. Every failure is ErrNotFound so a
// token never reveals anything to a different user.
func (s *InvitationService) lookup(ctx context.Context, invitee tokens.Identity, workspaceID uuid.UUID, token string) (*models.Invitation, error) {
	l := logging.FromContext(ctx).With("svc", "invitation.lookup")
	if strings.TrimSpace(token) == "" {
		return nil, fail(ErrNotFound, "invitation token is required")
	}

	inv, err := s.Invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, notFound(err, "invitation not found")
	}
	if inv.WorkspaceID != workspaceID {
		l.Warn("invitation_lookup_failed", "status", 404, "reason", "other workspace")
		return nil, fail(ErrNotFound, "invitation not found")
	}
	if !strings.EqualFold(inv.Email, invitee.Email) {
		l.Warn("invitation_lookup_failed", "status", 404, "reason", "email mismatch", "user_id", invitee.UserID)
		return nil, fail(ErrNotFound, "invitation not found")
	}
	if inv.Status != models.InvitationPending {
		return nil, fail(ErrNotFound, "invitation already used")
	}
	if inv.Expired(s.clock()) {
		return nil, fail(ErrNotFound, "invitation expired")
	}
	return inv, nil
}

func (s *InvitationService) View(ctx context.Context, invitee tokens.Identity, workspaceID uuid.UUID, token string) (*models.Invitation, error) {
	return s.lookup(ctx, invitee, workspaceID, token)
}

// Respond accepts or rejects the invitation. Acceptance creates the
// membership with the invited role in the same transaction.
func (s *InvitationService) Respond(ctx context.Context, invitee tokens.Identity, workspaceID uuid.UUID, token string, req transport.RespondInvitationRequest) (*models.Invitation, *models.WorkspaceMember, error) {
	l := logging.FromContext(ctx).With("svc", "invitation.respond")

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != models.InvitationAccepted && status != models.InvitationRejected {
		return nil, nil, invalidField("status", "must be accepted or rejected")
	}

	inv, err := s.lookup(ctx, invitee, workspaceID, token)
	if err != nil {
		return nil, nil, err
	}

	updated, member, err := s.Invitations.ResolveInvitation(ctx, inv.ID, status, invitee.UserID, s.clock())
	switch {
	case errors.Is(err, repo.ErrInvitationClosed):
		return nil, nil, fail(ErrNotFound, "invitation already used")
	case errors.Is(err, repo.ErrConflict):
		return nil, nil, fail(ErrConflict, "you are already a member of this workspace")
	case err != nil:
		return nil, nil, notFound(err, "invitation not found")
	}
	l.Info("invitation_resolved", "invitation_id", inv.ID, "status", status, "user_id", invitee.UserID)
	return updated, member, nil
}

func (s *InvitationService) Delete(ctx context.Context, userID, workspaceID, invitationID uuid.UUID) error {
	if _, err := s.Access.Authorize(ctx, userID, workspaceID, permissions.DeleteInvitation); err != nil {
		return err
	}
	if err := s.Invitations.DeleteInvitation(ctx, workspaceID, invitationID); err != nil {
		return notFound(err, "invitation not found")
	}
	return nil
}
