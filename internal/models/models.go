package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"          json:"id"`
	Name         string    `gorm:"size:255;not null"                 json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"     json:"email"`
	PasswordHash string    `gorm:"not null"                          json:"-"`
	CreatedAt    time.Time `gorm:"not null"                          json:"createdAt"`
}

// Session holds the sha256 digest of the refresh token, never the raw value.
type Session struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey"             json:"id"`
	UserID       uuid.UUID  `gorm:"type:char(36);index;not null"         json:"userId"`
	RefreshToken string     `gorm:"size:64;not null;uniqueIndex"         json:"-"`
	Revoked      bool       `gorm:"not null;default:false"               json:"revoked"`
	RevokedAt    *time.Time `                                            json:"revokedAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null"                             json:"createdAt"`
	ExpiresAt    time.Time  `gorm:"not null"                             json:"expiresAt"`
}

type Workspace struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"     json:"id"`
	Name      string    `gorm:"size:255;not null"            json:"name"`
	OwnerID   uuid.UUID `gorm:"type:char(36);index;not null" json:"ownerId"`
	CreatedAt time.Time `gorm:"not null"                     json:"createdAt"`
}

// WorkspaceRole.Permissions is the comma-joined canonical form produced by permissions.Set.String.
type WorkspaceRole struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"                                   json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_role_workspace_name" json:"workspaceId"`
	RoleName    string    `gorm:"size:64;not null;uniqueIndex:idx_role_workspace_name"       json:"roleName"`
	Permissions string    `gorm:"type:text;not null"                                         json:"-"`
	CreatedAt   time.Time `gorm:"not null"                                                   json:"createdAt"`
}

type WorkspaceMember struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"                                json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_member_workspace" json:"workspaceId"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_member_workspace" json:"userId"`
	RoleID      uuid.UUID `gorm:"type:char(36);not null;index"                            json:"roleId"`
	JoinedAt    time.Time `gorm:"not null"                                                json:"joinedAt"`
}

type Invitation struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey"          json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:char(36);index;not null"      json:"workspaceId"`
	Email       string     `gorm:"size:255;index;not null"           json:"email"`
	Token       string     `gorm:"size:64;uniqueIndex;not null"      json:"-"`
	RoleID      uuid.UUID  `gorm:"type:char(36);index;not null"      json:"roleId"`
	Status      string     `gorm:"size:16;not null;default:pending"  json:"status"`
	InvitedAt   time.Time  `gorm:"not null"                          json:"invitedAt"`
	ExpiredAt   time.Time  `gorm:"not null"                          json:"expiredAt"`
	AcceptedAt  *time.Time `                                         json:"acceptedAt,omitempty"`
	UpdatedAt   time.Time  `                                         json:"updatedAt"`
}

// Todo and Status are scoped to exactly one of UserID or WorkspaceID.
type Todo struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:char(36);index"      json:"userId,omitempty"`
	WorkspaceID *uuid.UUID `gorm:"type:char(36);index"      json:"workspaceId,omitempty"`
	Title       string     `gorm:"size:255;not null"        json:"title"`
	Content     *string    `gorm:"type:text"                json:"content,omitempty"`
	StatusID    *uuid.UUID `gorm:"type:char(36);index"      json:"statusId,omitempty"`
	CreatedAt   time.Time  `gorm:"not null"                 json:"createdAt"`
	UpdatedAt   time.Time  `                                json:"updatedAt"`
}

type Status struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:char(36);index"      json:"userId,omitempty"`
	WorkspaceID *uuid.UUID `gorm:"type:char(36);index"      json:"workspaceId,omitempty"`
	Title       string     `gorm:"size:255;not null"        json:"title"`
	CreatedAt   time.Time  `gorm:"not null"                 json:"createdAt"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error            { newID(&u.ID); return nil }
func (s *Session) BeforeCreate(tx *gorm.DB) error         { newID(&s.ID); return nil }
func (w *Workspace) BeforeCreate(tx *gorm.DB) error       { newID(&w.ID); return nil }
func (r *WorkspaceRole) BeforeCreate(tx *gorm.DB) error   { newID(&r.ID); return nil }
func (m *WorkspaceMember) BeforeCreate(tx *gorm.DB) error { newID(&m.ID); return nil }
func (i *Invitation) BeforeCreate(tx *gorm.DB) error      { newID(&i.ID); return nil }
func (t *Todo) BeforeCreate(tx *gorm.DB) error            { newID(&t.ID); return nil }
func (s *Status) BeforeCreate(tx *gorm.DB) error          { newID(&s.ID); return nil }

func (User) TableName() string            { return "users" }
func (Session) TableName() string         { return "sessions" }
func (Workspace) TableName() string       { return "workspaces" }
func (WorkspaceRole) TableName() string   { return "workspace_roles" }
func (WorkspaceMember) TableName() string { return "workspace_members" }
func (Invitation) TableName() string      { return "invitations" }
func (Todo) TableName() string            { return "todos" }
func (Status) TableName() string          { return "statuses" }

// Expired reports whether the session can no longer be rotated at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiredAt)
}
