package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type WorkspaceHandler struct {
	Workspaces *service.WorkspaceService
}

func (h *WorkspaceHandler) Create(c echo.Context) error {
	l := logger(c, "workspace_create")
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req transport.WorkspaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.Workspaces.Create(c.Request().Context(), who.UserID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusCreated, transport.CreatedWorkspaceResponse{
		Workspace: out.Workspace,
		Owner:     out.Owner,
		Roles:     transport.NewRoles(out.Roles),
	})
}

func (h *WorkspaceHandler) List(c echo.Context) error {
	l := logger(c, "workspace_list")
	who, err := identity(c)
	if err != nil {
		return err
	}
	list, err := h.Workspaces.List(c.Request().Context(), who.UserID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *WorkspaceHandler) Get(c echo.Context) error {
	l := logger(c, "workspace_get")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.Workspaces.Get(c.Request().Context(), who.UserID, wsID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, transport.WorkspaceDetailResponse{Workspace: *d.Workspace, Members: d.Members})
}

func (h *WorkspaceHandler) Rename(c echo.Context) error {
	l := logger(c, "workspace_rename")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.WorkspaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ws, err := h.Workspaces.Rename(c.Request().Context(), who.UserID, wsID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *WorkspaceHandler) Delete(c echo.Context) error {
	l := logger(c, "workspace_delete")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Workspaces.Delete(c.Request().Context(), who.UserID, wsID); err != nil {
		return httpError(l, err)
	}
	l.Info("workspace_deleted", "workspace_id", wsID)
	return c.NoContent(http.StatusNoContent)
}
