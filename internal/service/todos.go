package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/permissions"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/transport"
	"github.com/Skotchmaster/taskhub/internal/util"
)

type TodoService struct {
	Todos    TodoStore
	Statuses StatusStore
	Access   *Access
}

// Create makes a personal todo, or a workspace todo when WorkspaceID is set.
// Workspace todos carry no user id.
func (s *TodoService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateTodoRequest) (*models.Todo, error) {
	f := fieldErrors{}
	title := checkText(f, "title", req.Title, maxNameLen)
	workspaceID := checkOptionalID(f, "workspaceId", req.WorkspaceID)
	statusID := checkOptionalID(f, "statusId", req.StatusID)
	if err := f.err(); err != nil {
		return nil, err
	}

	todo := &models.Todo{Title: title, Content: req.Content, StatusID: statusID}
	if workspaceID != nil {
		if _, err := s.Access.Authorize(ctx, userID, *workspaceID, permissions.CreateTodo); err != nil {
			return nil, err
		}
		todo.WorkspaceID = workspaceID
	} else {
		todo.UserID = &userID
	}

	if statusID != nil {
		if err := s.checkStatusScope(ctx, *statusID, todo.UserID, todo.WorkspaceID); err != nil {
			return nil, err
		}
	}
	if err := s.Todos.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("todo_created", "todo_id", todo.ID, "workspace_id", todo.WorkspaceID)
	return todo, nil
}

// List returns the caller's personal todos, or a workspace's todos when
// workspaceID is set, optionally filtered by status and windowed by page.
func (s *TodoService) List(ctx context.Context, userID uuid.UUID, workspaceID, statusID *uuid.UUID, page util.Page) ([]models.Todo, error) {
	filter := repo.TodoFilter{StatusID: statusID, Page: page}
	if workspaceID != nil {
		if _, err := s.Access.Authorize(ctx, userID, *workspaceID, permissions.ReadTodo); err != nil {
			return nil, err
		}
		filter.WorkspaceID = workspaceID
	} else {
		filter.UserID = &userID
	}
	return s.Todos.ListTodos(ctx, filter)
}

func (s *TodoService) load(ctx context.Context, userID, id uuid.UUID, perm permissions.Permission) (*models.Todo, error) {
	todo, err := s.Todos.GetTodo(ctx, id)
	if err != nil {
		return nil, notFound(err, "todo not found")
	}
	if err := s.Access.authorizeScoped(ctx, userID, todo.UserID, todo.WorkspaceID, perm); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	return s.load(ctx, userID, id, permissions.ReadTodo)
}

func (s *TodoService) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateTodoRequest) (*models.Todo, error) {
	f := fieldErrors{}
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = checkText(f, "title", *req.Title, maxNameLen)
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	var statusID *uuid.UUID
	clearStatus := req.StatusID != nil && strings.TrimSpace(*req.StatusID) == ""
	if req.StatusID != nil && !clearStatus {
		statusID = checkOptionalID(f, "statusId", req.StatusID)
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	todo, err := s.load(ctx, userID, id, permissions.UpdateTodo)
	if err != nil {
		return nil, err
	}
	switch {
	case clearStatus:
		fields["status_id"] = nil
	case statusID != nil:
		if err := s.checkStatusScope(ctx, *statusID, todo.UserID, todo.WorkspaceID); err != nil {
			return nil, err
		}
		fields["status_id"] = *statusID
	}

	updated, err := s.Todos.UpdateTodo(ctx, todo.ID, fields)
	if err != nil {
		return nil, notFound(err, "todo not found")
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	todo, err := s.load(ctx, userID, id, permissions.DeleteTodo)
	if err != nil {
		return err
	}
	if err := s.Todos.DeleteTodo(ctx, todo.ID); err != nil {
		return notFound(err, "todo not found")
	}
	return nil
}

// checkStatusScope requires the status to live in the same personal or
// workspace scope as the todo.
func (s *TodoService) checkStatusScope(ctx context.Context, statusID uuid.UUID, userID, workspaceID *uuid.UUID) error {
	st, err := s.Statuses.GetStatus(ctx, statusID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalidField("statusId", "status not found")
		}
		return err
	}
	if !sameScope(st.UserID, st.WorkspaceID, userID, workspaceID) {
		return invalidField("statusId", "status belongs to a different scope")
	}
	return nil
}

func sameScope(aUser, aWorkspace, bUser, bWorkspace *uuid.UUID) bool {
	if aWorkspace != nil || bWorkspace != nil {
		return aWorkspace != nil && bWorkspace != nil && *aWorkspace == *bWorkspace
	}
	return aUser != nil && bUser != nil && *aUser == *bUser
}
