package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type RoleHandler struct {
	Roles *service.RoleService
}

func (h *RoleHandler) List(c echo.Context) error {
	l := logger(c, "role_list")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Roles.List(c.Request().Context(), who.UserID, wsID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, transport.NewRoles(list))
}

func (h *RoleHandler) Create(c echo.Context) error {
	l := logger(c, "role_create")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.CreateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.Roles.Create(c.Request().Context(), who.UserID, wsID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusCreated, transport.NewRole(role))
}

func (h *RoleHandler) Update(c echo.Context) error {
	l := logger(c, "role_update")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	var req transport.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.Roles.Update(c.Request().Context(), who.UserID, wsID, roleID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, transport.NewRole(role))
}

func (h *RoleHandler) Delete(c echo.Context) error {
	l := logger(c, "role_delete")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}

	if err := h.Roles.Delete(c.Request().Context(), who.UserID, wsID, roleID); err != nil {
		return httpError(l, err)
	}
	return c.NoContent(http.StatusNoContent)
}
