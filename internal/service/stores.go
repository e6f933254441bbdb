package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/mailqueue"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/repo"
)

// Narrow persistence capabilities, one per resource. *repo.GormRepo
// satisfies all of them.

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	FindSessionByRefreshToken(ctx context.Context, tokenHash string) (*models.Session, error)
	RotateSession(ctx context.Context, id uuid.UUID, oldHash, newHash string, now time.Time) error
	RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type WorkspaceStore interface {
	CreateWorkspace(ctx context.Context, ws *models.Workspace, seeds []repo.RoleSeed) (*repo.CreatedWorkspace, error)
	GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error)
	RenameWorkspace(ctx context.Context, id uuid.UUID, name string) (*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id uuid.UUID) error
}

type MemberStore interface {
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*models.WorkspaceMember, error)
	GetMemberByID(ctx context.Context, workspaceID, memberID uuid.UUID) (*models.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
	UpdateMemberRole(ctx context.Context, workspaceID, memberID, roleID uuid.UUID) (*models.WorkspaceMember, error)
	DeleteMember(ctx context.Context, workspaceID, memberID uuid.UUID) error
}

type RoleStore interface {
	ListRoles(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceRole, error)
	GetRole(ctx context.Context, workspaceID, roleID uuid.UUID) (*models.WorkspaceRole, error)
	CreateRole(ctx context.Context, role *models.WorkspaceRole) error
	UpdateRole(ctx context.Context, workspaceID, roleID uuid.UUID, fields map[string]any) (*models.WorkspaceRole, error)
	DeleteRole(ctx context.Context, workspaceID, roleID uuid.UUID) error
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	ListInvitations(ctx context.Context, workspaceID uuid.UUID) ([]models.Invitation, error)
	ListPendingInvitationsByEmail(ctx context.Context, email string, now time.Time) ([]models.Invitation, error)
	DeleteInvitation(ctx context.Context, workspaceID, invitationID uuid.UUID) error
	ResolveInvitation(ctx context.Context, id uuid.UUID, status string, userID uuid.UUID, now time.Time) (*models.Invitation, *models.WorkspaceMember, error)
}

type TodoStore interface {
	CreateTodo(ctx context.Context, t *models.Todo) error
	GetTodo(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	ListTodos(ctx context.Context, f repo.TodoFilter) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id uuid.UUID) error
}

type StatusStore interface {
	CreateStatus(ctx context.Context, s *models.Status) error
	GetStatus(ctx context.Context, id uuid.UUID) (*models.Status, error)
	ListStatuses(ctx context.Context, scope repo.Scope) ([]models.Status, error)
	RenameStatus(ctx context.Context, id uuid.UUID, title string) (*models.Status, error)
	DeleteStatus(ctx context.Context, id uuid.UUID) error
}

// Mailer accepts a message without waiting for the broker.
type Mailer interface {
	Dispatch(msg mailqueue.EmailMessage)
}
