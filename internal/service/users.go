package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

type UserService struct {
	Users       UserStore
	Invitations InvitationStore
}

func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return u, nil
}

// PendingInvitations lists open invitations addressed to the caller's email.
func (s *UserService) PendingInvitations(ctx context.Context, who tokens.Identity) ([]models.Invitation, error) {
	return s.Invitations.ListPendingInvitationsByEmail(ctx, normalizeEmail(who.Email), time.Now().UTC())
}
