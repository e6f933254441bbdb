package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type InvitationHandler struct {
	Invitations *service.InvitationService
}

func (h *InvitationHandler) Create(c echo.Context) error {
	l := logger(c, "invitation_create")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.CreateInvitationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inv, err := h.Invitations.Create(c.Request().Context(), who.UserID, wsID, req)
	if err != nil {
		return httpError(l, err)
	}
	l.Info("invitation_created", "workspace_id", wsID, "invitation_id", inv.ID)
	return c.JSON(http.StatusCreated, transport.InvitationResponse{Invitation: *inv, Token: inv.Token})
}

// Get lists the workspace's invitations, or shows one invitation to its
// invitee when a token is supplied.
func (h *InvitationHandler) Get(c echo.Context) error {
	l := logger(c, "invitation_get")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		list, err := h.Invitations.List(ctx, who.UserID, wsID)
		if err != nil {
			return httpError(l, err)
		}
		return c.JSON(http.StatusOK, list)
	}

	inv, err := h.Invitations.View(ctx, who, wsID, token)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, transport.InvitationResponse{Invitation: *inv})
}

func (h *InvitationHandler) Respond(c echo.Context) error {
	l := logger(c, "invitation_respond")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.RespondInvitationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inv, member, err := h.Invitations.Respond(c.Request().Context(), who, wsID, c.QueryParam("token"), req)
	if err != nil {
		return httpError(l, err)
	}
	l.Info("invitation_resolved", "invitation_id", inv.ID, "invitation_status", inv.Status)
	return c.JSON(http.StatusOK, transport.InvitationResponse{Invitation: *inv, Member: member})
}

func (h *InvitationHandler) Delete(c echo.Context) error {
	l := logger(c, "invitation_delete")
	who, err := identity(c)
	if err != nil {
		return err
	}
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	invID, err := pathID(c, "invitationId")
	if err != nil {
		return err
	}

	if err := h.Invitations.Delete(c.Request().Context(), who.UserID, wsID, invID); err != nil {
		return httpError(l, err)
	}
	return c.NoContent(http.StatusNoContent)
}
