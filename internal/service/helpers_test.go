package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/taskhub/internal/db"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/mailqueue"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

const testPassword = "Secret-pass1"

type fakeMailer struct {
	mu   sync.Mutex
	msgs []mailqueue.EmailMessage
}

func (m *fakeMailer) Dispatch(msg mailqueue.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *fakeMailer) sent() []mailqueue.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailqueue.EmailMessage(nil), m.msgs...)
}

type testEnv struct {
	svc    *Services
	repo   *repo.GormRepo
	tokens *tokens.Service
	mail   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.Options{Driver: "sqlite", DSN: ":memory:", Quiet: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	ts, err := tokens.NewService([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)

	r := repo.New(gdb)
	mail := &fakeMailer{}
	svc := New(Deps{
		Repo:          r,
		Hasher:        hash.NewHasher(bcrypt.MinCost),
		Tokens:        ts,
		Mailer:        mail,
		RefreshTTL:    7 * 24 * time.Hour,
		InvitationTTL: 7 * 24 * time.Hour,
		BaseURL:       "http://app.test/",
	})
	return &testEnv{svc: svc, repo: r, tokens: ts, mail: mail}
}

func (e *testEnv) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	res, err := e.svc.Auth.Register(context.Background(), transport.RegisterRequest{
		Name: name, Email: email, Password: testPassword,
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) workspace(t *testing.T, owner *models.User) *repo.CreatedWorkspace {
	t.Helper()
	out, err := e.svc.Workspaces.Create(context.Background(), owner.ID, transport.WorkspaceRequest{Name: "Team " + owner.Name})
	require.NoError(t, err)
	return out
}

func roleID(t *testing.T, ws *repo.CreatedWorkspace, name string) string {
	t.Helper()
	for _, r := range ws.Roles {
		if r.RoleName == name {
			return r.ID.String()
		}
	}
	t.Fatalf("role %q not seeded", name)
	return ""
}

func identity(u *models.User) tokens.Identity {
	return tokens.Identity{UserID: u.ID, Email: u.Email}
}

// join invites user into ws with the named role and accepts on their behalf.
func (e *testEnv) join(t *testing.T, ws *repo.CreatedWorkspace, owner, user *models.User, role string) *models.WorkspaceMember {
	t.Helper()
	ctx := context.Background()
	inv, err := e.svc.Invitations.Create(ctx, owner.ID, ws.Workspace.ID, transport.CreateInvitationRequest{
		Email: user.Email, RoleID: roleID(t, ws, role),
	})
	require.NoError(t, err)
	_, member, err := e.svc.Invitations.Respond(ctx, identity(user), ws.Workspace.ID, inv.Token,
		transport.RespondInvitationRequest{Status: models.InvitationAccepted})
	require.NoError(t, err)
	require.NotNil(t, member)
	return member
}
