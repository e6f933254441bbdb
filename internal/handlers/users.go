package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) Me(c echo.Context) error {
	l := logger(c, "users_me")
	who, err := identity(c)
	if err != nil {
		return err
	}
	u, err := h.Users.Me(c.Request().Context(), who.UserID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, transport.NewUser(u))
}

func (h *UserHandler) Invitations(c echo.Context) error {
	l := logger(c, "users_invitations")
	who, err := identity(c)
	if err != nil {
		return err
	}
	list, err := h.Users.PendingInvitations(c.Request().Context(), who)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, list)
}
