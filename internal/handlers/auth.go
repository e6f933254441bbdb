package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type AuthHandler struct {
	Auth            *service.AuthService
	AccessCookieTTL time.Duration
	CookieSecure    bool
}

func (h *AuthHandler) setCookies(c echo.Context, res *service.AuthResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, res.AccessToken, h.AccessCookieTTL, h.CookieSecure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, res.RefreshToken, time.Until(res.RefreshExp), h.CookieSecure))
}

func (h *AuthHandler) clearCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, h.CookieSecure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, h.CookieSecure))
}

func refreshCookie(c echo.Context) string {
	ck, err := c.Cookie(tokens.RefreshCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (h *AuthHandler) Register(c echo.Context) error {
	l := logger(c, "register")
	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return httpError(l, err)
	}
	h.setCookies(c, res)
	l.Info("user_registered", "status", http.StatusCreated, "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"user":    transport.NewUser(res.User),
		"message": "user registered",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	l := logger(c, "login")
	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return httpError(l, err)
	}
	h.setCookies(c, res)
	l.Info("login_successful", "status", http.StatusCreated, "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, echo.Map{"user": transport.NewUser(res.User)})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	l := logger(c, "refresh")
	res, err := h.Auth.Refresh(c.Request().Context(), refreshCookie(c))
	if err != nil {
		l.Warn("refresh_rejected", "error", err)
		return httpError(l, err)
	}
	h.setCookies(c, res)
	return c.JSON(http.StatusOK, echo.Map{"message": "tokens refreshed"})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	l := logger(c, "logout")
	if err := h.Auth.Logout(c.Request().Context(), refreshCookie(c)); err != nil {
		l.Warn("logout_rejected", "error", err)
		return httpError(l, err)
	}
	h.clearCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
