// Package auth authenticates requests from the access-token cookie. It never
// consults the session store; only the refresh endpoint does.
package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

type Verifier interface {
	VerifyAccessToken(token string) (tokens.Identity, error)
}

// Result is either Authenticated or Rejected.
type Result interface {
	result()
}

type Authenticated struct {
	Identity tokens.Identity
}

type Rejected struct {
	Err AuthError
}

func (Authenticated) result() {}
func (Rejected) result()      {}

type AuthError struct {
	Status  int
	Message string
}

func (e AuthError) Error() string { return e.Message }

var (
	ErrMissingToken = AuthError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrBadToken     = AuthError{Status: http.StatusUnauthorized, Message: "Invalid token"}
)

// Authenticate reads the access cookie and verifies it. It has no side
// effects on the request.
func Authenticate(r *http.Request, v Verifier) Result {
	cookie, err := r.Cookie(tokens.AccessCookieName)
	if err != nil || cookie.Value == "" {
		return Rejected{Err: ErrMissingToken}
	}
	id, err := v.VerifyAccessToken(cookie.Value)
	if err != nil {
		return Rejected{Err: ErrBadToken}
	}
	return Authenticated{Identity: id}
}

// RequireAuth rejects unauthenticated requests with 401 and stores the
// identity on the echo context for handlers.
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch res := Authenticate(c.Request(), v).(type) {
			case Authenticated:
				c.Set(ContextUserID, res.Identity.UserID)
				c.Set(ContextEmail, res.Identity.Email)
				return next(c)
			case Rejected:
				logging.FromContext(c.Request().Context()).Warn("auth_rejected", "status", res.Err.Status, "reason", res.Err.Message)
				return echo.NewHTTPError(res.Err.Status, res.Err.Message)
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
		}
	}
}

var errNoIdentity = errors.New("no authenticated identity on context")

// IdentityFrom returns what RequireAuth stored.
func IdentityFrom(c echo.Context) (tokens.Identity, error) {
	id, ok := c.Get(ContextUserID).(uuid.UUID)
	if !ok {
		return tokens.Identity{}, errNoIdentity
	}
	email, _ := c.Get(ContextEmail).(string)
	return tokens.Identity{UserID: id, Email: email}, nil
}
