package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/db"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/util"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.Options{Driver: "sqlite", DSN: ":memory:", Quiet: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	return New(gdb)
}

func createUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "user", Email: email, PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

var testSeeds = []RoleSeed{
	{Name: "owner", Permissions: "read:workspace,delete:workspace"},
	{Name: "editor", Permissions: "read:workspace"},
	{Name: "viewer", Permissions: "read:workspace"},
}

func createWorkspace(t *testing.T, r *GormRepo, owner uuid.UUID) *CreatedWorkspace {
	t.Helper()
	out, err := r.CreateWorkspace(context.Background(), &models.Workspace{Name: "team", OwnerID: owner}, testSeeds)
	require.NoError(t, err)
	return out
}

func TestCreateUser_DuplicateEmailIsConflict(t *testing.T) {
	r := newTestRepo(t)
	createUser(t, r, "a@example.com")

	err := r.CreateUser(context.Background(), &models.User{Name: "b", Email: "a@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrConflict)

	exists, err := r.EmailExists(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = r.GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSession_RotateAndRevoke(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "s@example.com")
	now := time.Now().UTC()

	s := &models.Session{UserID: u.ID, RefreshToken: "hash-1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, r.CreateSession(ctx, s))

	dup := &models.Session{UserID: u.ID, RefreshToken: "hash-1", ExpiresAt: now.Add(time.Hour)}
	require.ErrorIs(t, r.CreateSession(ctx, dup), ErrConflict)

	require.NoError(t, r.RotateSession(ctx, s.ID, "hash-1", "hash-2", now))

	_, err := r.FindSessionByRefreshToken(ctx, "hash-1")
	require.ErrorIs(t, err, ErrNotFound)
	found, err := r.FindSessionByRefreshToken(ctx, "hash-2")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	require.ErrorIs(t, r.RotateSession(ctx, s.ID, "hash-1", "hash-3", now), ErrSessionInactive, "stale token must not rotate")

	changed, err := r.RevokeSession(ctx, s.ID, now)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = r.RevokeSession(ctx, s.ID, now.Add(time.Minute))
	require.NoError(t, err, "revoke is idempotent")
	assert.False(t, changed)

	var revoked models.Session
	require.NoError(t, r.DB.Where("id = ?", s.ID).First(&revoked).Error)
	assert.True(t, revoked.Revoked)
	require.NotNil(t, revoked.RevokedAt)
	assert.WithinDuration(t, now, *revoked.RevokedAt, time.Second)

	require.ErrorIs(t, r.RotateSession(ctx, s.ID, "hash-2", "hash-4", now), ErrSessionInactive)
	_, err = r.RevokeSession(ctx, uuid.New(), now)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSession_RotateExpired(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "e@example.com")
	now := time.Now().UTC()

	s := &models.Session{UserID: u.ID, RefreshToken: "old", ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, r.CreateSession(ctx, s))

	require.ErrorIs(t, r.RotateSession(ctx, s.ID, "old", "new", now), ErrSessionInactive)
}

func TestCreateWorkspace_SeedsRolesAndOwner(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "o@example.com")

	out := createWorkspace(t, r, u.ID)
	require.Len(t, out.Roles, 3)
	assert.Equal(t, "owner", out.Roles[0].RoleName)
	assert.Equal(t, out.Roles[0].ID, out.Owner.RoleID)

	m, err := r.GetMember(ctx, out.Workspace.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Owner.ID, m.ID)

	list, err := r.ListWorkspacesForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, out.Workspace.ID, list[0].ID)
}

func TestListWorkspacesForUser_OnlyMemberships(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	a := createUser(t, r, "a@example.com")
	b := createUser(t, r, "b@example.com")

	wa := createWorkspace(t, r, a.ID)
	createWorkspace(t, r, b.ID)
	createWorkspace(t, r, b.ID)

	list, err := r.ListWorkspacesForUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, wa.Workspace.ID, list[0].ID)

	list, err = r.ListWorkspacesForUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.ListWorkspacesForUser(cancelled, a.ID)
	require.Error(t, err)
}

func TestCreateWorkspace_RollsBackOnFailure(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "rb@example.com")

	seeds := []RoleSeed{{Name: "owner", Permissions: ""}, {Name: "owner", Permissions: ""}}
	_, err := r.CreateWorkspace(ctx, &models.Workspace{Name: "broken", OwnerID: u.ID}, seeds)
	require.ErrorIs(t, err, ErrConflict)

	var workspaces, roles, members int64
	require.NoError(t, r.DB.Model(&models.Workspace{}).Count(&workspaces).Error)
	require.NoError(t, r.DB.Model(&models.WorkspaceRole{}).Count(&roles).Error)
	require.NoError(t, r.DB.Model(&models.WorkspaceMember{}).Count(&members).Error)
	assert.Zero(t, workspaces)
	assert.Zero(t, roles)
	assert.Zero(t, members)
}

func TestDeleteWorkspace_Cascades(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "c@example.com")
	out := createWorkspace(t, r, u.ID)
	wsID := out.Workspace.ID

	require.NoError(t, r.CreateInvitation(ctx, &models.Invitation{
		WorkspaceID: wsID, Email: "bob@example.com", Token: "tok", RoleID: out.Roles[1].ID,
		Status: models.InvitationPending, InvitedAt: time.Now().UTC(), ExpiredAt: time.Now().UTC().Add(time.Hour),
	}))
	st := &models.Status{WorkspaceID: &wsID, Title: "doing"}
	require.NoError(t, r.CreateStatus(ctx, st))
	require.NoError(t, r.CreateTodo(ctx, &models.Todo{WorkspaceID: &wsID, Title: "t", StatusID: &st.ID}))

	other := createWorkspace(t, r, u.ID)

	require.NoError(t, r.DeleteWorkspace(ctx, wsID))

	_, err := r.GetWorkspace(ctx, wsID)
	require.ErrorIs(t, err, ErrNotFound)

	for _, m := range []any{&models.WorkspaceMember{}, &models.WorkspaceRole{}, &models.Invitation{}, &models.Todo{}, &models.Status{}} {
		var n int64
		require.NoError(t, r.DB.Model(m).Where("workspace_id = ?", wsID).Count(&n).Error)
		assert.Zero(t, n, "%T left behind", m)
	}

	roles, err := r.ListRoles(ctx, other.Workspace.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 3, "other workspaces are untouched")

	require.ErrorIs(t, r.DeleteWorkspace(ctx, wsID), ErrNotFound)
}

func TestDeleteRole_InUse(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "r@example.com")
	out := createWorkspace(t, r, u.ID)
	wsID := out.Workspace.ID

	require.ErrorIs(t, r.DeleteRole(ctx, wsID, out.Roles[0].ID), ErrRoleInUse)

	viewer := out.Roles[2]
	require.NoError(t, r.DeleteRole(ctx, wsID, viewer.ID))
	_, err := r.GetRole(ctx, wsID, viewer.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.DeleteRole(ctx, wsID, uuid.New()), ErrNotFound)
}

func TestUpdateRole_DuplicateNameIsConflict(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "d@example.com")
	out := createWorkspace(t, r, u.ID)

	_, err := r.UpdateRole(ctx, out.Workspace.ID, out.Roles[2].ID, map[string]any{"role_name": "editor"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestResolveInvitation_ExactlyOnce(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, r, "own@example.com")
	bob := createUser(t, r, "bob@example.com")
	out := createWorkspace(t, r, owner.ID)
	now := time.Now().UTC()

	inv := &models.Invitation{
		WorkspaceID: out.Workspace.ID, Email: bob.Email, Token: "invite-token", RoleID: out.Roles[1].ID,
		Status: models.InvitationPending, InvitedAt: now, ExpiredAt: now.Add(time.Hour),
	}
	require.NoError(t, r.CreateInvitation(ctx, inv))

	got, member, err := r.ResolveInvitation(ctx, inv.ID, models.InvitationAccepted, bob.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, got.Status)
	require.NotNil(t, got.AcceptedAt)
	require.NotNil(t, member)
	assert.Equal(t, out.Roles[1].ID, member.RoleID)

	_, _, err = r.ResolveInvitation(ctx, inv.ID, models.InvitationRejected, bob.ID, now)
	require.ErrorIs(t, err, ErrInvitationClosed)

	pending, err := r.ListPendingInvitationsByEmail(ctx, bob.Email, now)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResolveInvitation_ExpiredAndReject(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, r, "own2@example.com")
	bob := createUser(t, r, "bob2@example.com")
	out := createWorkspace(t, r, owner.ID)
	now := time.Now().UTC()

	expired := &models.Invitation{
		WorkspaceID: out.Workspace.ID, Email: bob.Email, Token: "expired", RoleID: out.Roles[2].ID,
		Status: models.InvitationPending, InvitedAt: now.Add(-2 * time.Hour), ExpiredAt: now.Add(-time.Hour),
	}
	require.NoError(t, r.CreateInvitation(ctx, expired))
	_, _, err := r.ResolveInvitation(ctx, expired.ID, models.InvitationAccepted, bob.ID, now)
	require.ErrorIs(t, err, ErrInvitationClosed)

	open := &models.Invitation{
		WorkspaceID: out.Workspace.ID, Email: bob.Email, Token: "open", RoleID: out.Roles[2].ID,
		Status: models.InvitationPending, InvitedAt: now, ExpiredAt: now.Add(time.Hour),
	}
	require.NoError(t, r.CreateInvitation(ctx, open))

	pending, err := r.ListPendingInvitationsByEmail(ctx, bob.Email, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)

	got, member, err := r.ResolveInvitation(ctx, open.ID, models.InvitationRejected, bob.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationRejected, got.Status)
	assert.Nil(t, member)

	_, err = r.GetMember(ctx, out.Workspace.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTodosAndStatuses_Scoping(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, r, "t@example.com")
	out := createWorkspace(t, r, u.ID)
	wsID := out.Workspace.ID

	personal := &models.Status{UserID: &u.ID, Title: "mine"}
	require.NoError(t, r.CreateStatus(ctx, personal))
	shared := &models.Status{WorkspaceID: &wsID, Title: "shared"}
	require.NoError(t, r.CreateStatus(ctx, shared))

	require.NoError(t, r.CreateTodo(ctx, &models.Todo{UserID: &u.ID, Title: "p1", StatusID: &personal.ID}))
	require.NoError(t, r.CreateTodo(ctx, &models.Todo{UserID: &u.ID, Title: "p2"}))
	require.NoError(t, r.CreateTodo(ctx, &models.Todo{WorkspaceID: &wsID, UserID: &u.ID, Title: "w1"}))

	mine, err := r.ListTodos(ctx, TodoFilter{Scope: Scope{UserID: &u.ID}})
	require.NoError(t, err)
	assert.Len(t, mine, 2, "workspace todos are not personal even with a creator")

	paged, err := r.ListTodos(ctx, TodoFilter{Scope: Scope{UserID: &u.ID}, Page: util.Page{Offset: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	filtered, err := r.ListTodos(ctx, TodoFilter{Scope: Scope{UserID: &u.ID}, StatusID: &personal.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "p1", filtered[0].Title)

	team, err := r.ListTodos(ctx, TodoFilter{Scope: Scope{WorkspaceID: &wsID}})
	require.NoError(t, err)
	require.Len(t, team, 1)

	statuses, err := r.ListStatuses(ctx, Scope{UserID: &u.ID})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "mine", statuses[0].Title)

	require.NoError(t, r.DeleteStatus(ctx, personal.ID))
	detached, err := r.GetTodo(ctx, filtered[0].ID)
	require.NoError(t, err)
	assert.Nil(t, detached.StatusID)

	updated, err := r.UpdateTodo(ctx, detached.ID, map[string]any{"title": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	require.NoError(t, r.DeleteTodo(ctx, detached.ID))
	require.ErrorIs(t, r.DeleteTodo(ctx, detached.ID), ErrNotFound)
}
