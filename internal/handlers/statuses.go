package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type StatusHandler struct {
	Statuses *service.StatusService
}

func (h *StatusHandler) Create(c echo.Context) error {
	l := logger(c, "status_create")
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req transport.CreateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if raw := c.Param("id"); raw != "" {
		if _, err := pathID(c, "id"); err != nil {
			return err
		}
		req.WorkspaceID = &raw
	}

	s, err := h.Statuses.Create(c.Request().Context(), who.UserID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *StatusHandler) List(c echo.Context) error {
	l := logger(c, "status_list")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := queryID(c, "workspaceId")
	if err != nil {
		return err
	}
	if c.Param("id") != "" {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		wsID = &id
	}

	list, err := h.Statuses.List(c.Request().Context(), who.UserID, wsID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *StatusHandler) Get(c echo.Context) error {
	l := logger(c, "status_get")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.Statuses.Get(c.Request().Context(), who.UserID, id)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StatusHandler) Rename(c echo.Context) error {
	l := logger(c, "status_rename")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.Statuses.Rename(c.Request().Context(), who.UserID, id, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StatusHandler) Delete(c echo.Context) error {
	l := logger(c, "status_delete")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Statuses.Delete(c.Request().Context(), who.UserID, id); err != nil {
		return httpError(l, err)
	}
	return c.NoContent(http.StatusNoContent)
}
