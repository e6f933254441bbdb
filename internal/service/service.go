package service

import (
	"time"

	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

type Deps struct {
	Repo          *repo.GormRepo
	Hasher        *hash.Hasher
	Tokens        *tokens.Service
	Mailer        Mailer
	RefreshTTL    time.Duration
	InvitationTTL time.Duration
	BaseURL       string
}

type Services struct {
	Access      *Access
	Auth        *AuthService
	Users       *UserService
	Workspaces  *WorkspaceService
	Members     *MemberService
	Roles       *RoleService
	Invitations *InvitationService
	Todos       *TodoService
	Statuses    *StatusService
}

func New(d Deps) *Services {
	r := d.Repo
	access := &Access{Members: r, Roles: r}
	return &Services{
		Access:     access,
		Auth:       NewAuthService(r, r, d.Hasher, d.Tokens, d.RefreshTTL),
		Users:      &UserService{Users: r, Invitations: r},
		Workspaces: &WorkspaceService{Workspaces: r, Members: r, Access: access},
		Members:    &MemberService{Workspaces: r, Members: r, Roles: r, Access: access},
		Roles:      &RoleService{Roles: r, Access: access},
		Invitations: &InvitationService{
			Invitations: r,
			Workspaces:  r,
			Roles:       r,
			Access:      access,
			Mailer:      d.Mailer,
			TTL:         d.InvitationTTL,
			BaseURL:     d.BaseURL,
			now:         time.Now,
		},
		Todos:    &TodoService{Todos: r, Statuses: r, Access: access},
		Statuses: &StatusService{Statuses: r, Access: access},
	}
}
