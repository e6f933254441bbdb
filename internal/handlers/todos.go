package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
	"github.com/Skotchmaster/taskhub/internal/util"
)

type TodoHandler struct {
	Todos *service.TodoService
}

func (h *TodoHandler) Create(c echo.Context) error {
	l := logger(c, "todo_create")
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req transport.CreateTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if raw := c.Param("id"); raw != "" {
		if _, err := pathID(c, "id"); err != nil {
			return err
		}
		req.WorkspaceID = &raw
	}

	t, err := h.Todos.Create(c.Request().Context(), who.UserID, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TodoHandler) List(c echo.Context) error {
	l := logger(c, "todo_list")
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
	statusID, err := queryID(c, "statusId")
	if err != nil {
		return err
	}
	page, err := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"details": map[string]string{"page": err.Error()},
		})
	}

	list, err := h.Todos.List(c.Request().Context(), who.UserID, wsID, statusID, page)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *TodoHandler) Get(c echo.Context) error {
	l := logger(c, "todo_get")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.Todos.Get(c.Request().Context(), who.UserID, id)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) Update(c echo.Context) error {
	l := logger(c, "todo_update")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	t, err := h.Todos.Update(c.Request().Context(), who.UserID, id, req)
	if err != nil {
		return httpError(l, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) Delete(c echo.Context) error {
	l := logger(c, "todo_delete")
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Todos.Delete(c.Request().Context(), who.UserID, id); err != nil {
		return httpError(l, err)
	}
	return c.NoContent(http.StatusNoContent)
}
