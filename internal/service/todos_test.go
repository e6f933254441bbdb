package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/transport"
	"github.com/Skotchmaster/taskhub/internal/util"
)

func ptr[T any](v T) *T { return &v }

func TestPersonalTodo_OnlyCreator(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u1 := e.register(t, "U1", "u1@example.com")
	u2 := e.register(t, "U2", "u2@example.com")
	e.workspace(t, u2)

	todo, err := e.svc.Todos.Create(ctx, u1.ID, transport.CreateTodoRequest{Title: "mine", Content: ptr("notes")})
	require.NoError(t, err)
	require.NotNil(t, todo.UserID)
	assert.Nil(t, todo.WorkspaceID)

	_, err = e.svc.Todos.Get(ctx, u2.ID, todo.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = e.svc.Todos.Update(ctx, u2.ID, todo.ID, transport.UpdateTodoRequest{Title: ptr("stolen")})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, e.svc.Todos.Delete(ctx, u2.ID, todo.ID), ErrForbidden)

	got, err := e.svc.Todos.Get(ctx, u1.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes", *got.Content)

	theirs, err := e.svc.Todos.List(ctx, u2.ID, nil, nil, util.Page{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	require.NoError(t, e.svc.Todos.Delete(ctx, u1.ID, todo.ID))
	_, err = e.svc.Todos.Get(ctx, u1.ID, todo.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTodo_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u1 := e.register(t, "U1", "u1@example.com")

	cases := []struct {
		name string
		req  transport.CreateTodoRequest
	}{
		{"empty title", transport.CreateTodoRequest{Title: "  "}},
		{"long title", transport.CreateTodoRequest{Title: strings.Repeat("x", 256)}},
		{"bad workspace id", transport.CreateTodoRequest{Title: "t", WorkspaceID: ptr("nope")}},
		{"bad status id", transport.CreateTodoRequest{Title: "t", StatusID: ptr("nope")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Todos.Create(ctx, u1.ID, tc.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTodo_StatusMustShareScope(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u1 := e.register(t, "U1", "u1@example.com")
	u2 := e.register(t, "U2", "u2@example.com")
	ws := e.workspace(t, u1)
	wsID := ws.Workspace.ID.String()

	personal, err := e.svc.Statuses.Create(ctx, u1.ID, transport.CreateStatusRequest{Title: "todo"})
	require.NoError(t, err)
	shared, err := e.svc.Statuses.Create(ctx, u1.ID, transport.CreateStatusRequest{Title: "review", WorkspaceID: &wsID})
	require.NoError(t, err)
	foreign, err := e.svc.Statuses.Create(ctx, u2.ID, transport.CreateStatusRequest{Title: "theirs"})
	require.NoError(t, err)

	_, err = e.svc.Todos.Create(ctx, u1.ID, transport.CreateTodoRequest{Title: "a", StatusID: ptr(shared.ID.String())})
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.svc.Todos.Create(ctx, u1.ID, transport.CreateTodoRequest{Title: "a", StatusID: ptr(foreign.ID.String())})
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.svc.Todos.Create(ctx, u1.ID, transport.CreateTodoRequest{Title: "a", WorkspaceID: &wsID, StatusID: ptr(personal.ID.String())})
	require.ErrorIs(t, err, ErrValidation)

	todo, err := e.svc.Todos.Create(ctx, u1.ID, transport.CreateTodoRequest{Title: "a", StatusID: ptr(personal.ID.String())})
	require.NoError(t, err)

	filtered, err := e.svc.Todos.List(ctx, u1.ID, nil, &personal.ID, util.Page{})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	cleared, err := e.svc.Todos.Update(ctx, u1.ID, todo.ID, transport.UpdateTodoRequest{StatusID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.StatusID)

	moved, err := e.svc.Todos.Update(ctx, u1.ID, todo.ID, transport.UpdateTodoRequest{StatusID: ptr(personal.ID.String())})
	require.NoError(t, err)
	require.NotNil(t, moved.StatusID)

	require.NoError(t, e.svc.Statuses.Delete(ctx, u1.ID, personal.ID))
	detached, err := e.svc.Todos.Get(ctx, u1.ID, todo.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.StatusID)
}

func TestStatuses(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u1 := e.register(t, "U1", "u1@example.com")
	u2 := e.register(t, "U2", "u2@example.com")
	ws := e.workspace(t, u1)
	wsID := ws.Workspace.ID.String()

	st, err := e.svc.Statuses.Create(ctx, u1.ID, transport.CreateStatusRequest{Title: "backlog"})
	require.NoError(t, err)

	_, err = e.svc.Statuses.Rename(ctx, u2.ID, st.ID, transport.UpdateStatusRequest{Title: "mine"})
	require.ErrorIs(t, err, ErrForbidden)
	renamed, err := e.svc.Statuses.Rename(ctx, u1.ID, st.ID, transport.UpdateStatusRequest{Title: "icebox"})
	require.NoError(t, err)
	assert.Equal(t, "icebox", renamed.Title)

	_, err = e.svc.Statuses.Create(ctx, u2.ID, transport.CreateStatusRequest{Title: "x", WorkspaceID: &wsID})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = e.svc.Statuses.Create(ctx, u1.ID, transport.CreateStatusRequest{Title: "shared", WorkspaceID: &wsID})
	require.NoError(t, err)

	mine, err := e.svc.Statuses.List(ctx, u1.ID, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	team, err := e.svc.Statuses.List(ctx, u1.ID, &ws.Workspace.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	_, err = e.svc.Statuses.List(ctx, u2.ID, &ws.Workspace.ID)
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, e.svc.Statuses.Delete(ctx, u2.ID, st.ID), ErrForbidden)
	require.NoError(t, e.svc.Statuses.Delete(ctx, u1.ID, st.ID))
	_, err = e.svc.Statuses.Get(ctx, u1.ID, st.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUsersMe(t *testing.T) {
	e := newTestEnv(t)
	u1 := e.register(t, "U1", "u1@example.com")

	me, err := e.svc.Users.Me(context.Background(), u1.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", me.Email)
}
