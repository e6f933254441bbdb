package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/tokens"
)

func newService(t *testing.T, secret string) *tokens.Service {
	t.Helper()
	s, err := tokens.NewService([]byte(secret), time.Minute)
	require.NoError(t, err)
	return s
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: token})
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t, "secret")
	other := newService(t, "other-secret")
	userID := uuid.New()

	good, _, err := svc.IssueAccessToken(userID, "a@example.com")
	require.NoError(t, err)
	foreign, _, err := other.IssueAccessToken(userID, "a@example.com")
	require.NoError(t, err)

	t.Run("missing cookie", func(t *testing.T) {
		res := Authenticate(requestWithToken(""), svc)
		rej, ok := res.(Rejected)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rej.Err.Status)
		assert.Equal(t, "Unauthorized", rej.Err.Message)
	})

	for name, tok := range map[string]string{"garbage": "not-a-jwt", "foreign key": foreign} {
		t.Run(name, func(t *testing.T) {
			rej, ok := Authenticate(requestWithToken(tok), svc).(Rejected)
			require.True(t, ok)
			assert.Equal(t, ErrBadToken, rej.Err)
		})
	}

	t.Run("valid", func(t *testing.T) {
		ok, isOK := Authenticate(requestWithToken(good), svc).(Authenticated)
		require.True(t, isOK)
		assert.Equal(t, userID, ok.Identity.UserID)
		assert.Equal(t, "a@example.com", ok.Identity.Email)
	})
}

func TestRequireAuth(t *testing.T) {
	svc := newService(t, "secret")
	e := echo.New()
	userID := uuid.New()

	var seen tokens.Identity
	handler := RequireAuth(svc)(func(c echo.Context) error {
		id, err := IdentityFrom(c)
		if err != nil {
			return err
		}
		seen = id
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	err := handler(e.NewContext(requestWithToken(""), rec))
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "Unauthorized", he.Message)

	rec = httptest.NewRecorder()
	err = handler(e.NewContext(requestWithToken("bad"), rec))
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Invalid token", he.Message)

	tok, _, err := svc.IssueAccessToken(userID, "a@example.com")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(requestWithToken(tok), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen.UserID)
}

func TestIdentityFrom_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := IdentityFrom(c)
	require.Error(t, err)
}
