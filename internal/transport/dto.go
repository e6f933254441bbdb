package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUser(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type WorkspaceRequest struct {
	Name string `json:"name"`
}

type CreateRoleRequest struct {
	RoleName    string   `json:"roleName"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest leaves a field untouched when it is omitted.
type UpdateRoleRequest struct {
	RoleName    *string   `json:"roleName"`
	Permissions *[]string `json:"permissions"`
}

type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	RoleName    string    `json:"roleName"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewRole(r *models.WorkspaceRole) RoleResponse {
	perms := []string{}
	if set, err := permissions.Parse(r.Permissions); err == nil {
		perms = set.Strings()
	}
	return RoleResponse{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		RoleName:    r.RoleName,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
	}
}

func NewRoles(list []models.WorkspaceRole) []RoleResponse {
	out := make([]RoleResponse, 0, len(list))
	for i := range list {
		out = append(out, NewRole(&list[i]))
	}
	return out
}

type CreatedWorkspaceResponse struct {
	Workspace models.Workspace       `json:"workspace"`
	Owner     models.WorkspaceMember `json:"member"`
	Roles     []RoleResponse         `json:"roles"`
}

type WorkspaceDetailResponse struct {
	Workspace models.Workspace         `json:"workspace"`
	Members   []models.WorkspaceMember `json:"members"`
}

type UpdateMemberRequest struct {
	RoleID string `json:"roleId"`
}

type CreateInvitationRequest struct {
	Email  string `json:"email"`
	RoleID string `json:"roleId"`
}

type RespondInvitationRequest struct {
	Status string `json:"status"`
}

// InvitationResponse carries the token only when the invitation was just created.
type InvitationResponse struct {
	Invitation models.Invitation       `json:"invitation"`
	Token      string                  `json:"token,omitempty"`
	Member     *models.WorkspaceMember `json:"member,omitempty"`
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Content     *string `json:"content"`
	StatusID    *string `json:"statusId"`
	WorkspaceID *string `json:"workspaceId"`
}

// UpdateTodoRequest: an empty statusId detaches the todo from its status.
type UpdateTodoRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	StatusID *string `json:"statusId"`
}

type CreateStatusRequest struct {
	Title       string  `json:"title"`
	WorkspaceID *string `json:"workspaceId"`
}

type UpdateStatusRequest struct {
	Title string `json:"title"`
}
