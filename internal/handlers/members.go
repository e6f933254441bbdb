package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type MemberHandler struct {
	Members *service.MemberService
}

func (h *MemberHandler) List(c echo.Context) error {
	l := logger(c, "member_list")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Members.List(c.Request().Context(), who.UserID, wsID)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *MemberHandler) ChangeRole(c echo.Context) error {
	l := logger(c, "member_change_role")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	var req transport.UpdateMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	m, err := h.Members.ChangeRole(c.Request().Context(), who.UserID, wsID, memberID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MemberHandler) Remove(c echo.Context) error {
	l := logger(c, "member_remove")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return err
	}

	if err := h.Members.Remove(c.Request().Context(), who.UserID, wsID, memberID); err != nil {
		return httpError(l, err)
	}
	return c.NoContent(http.StatusNoContent)
}
