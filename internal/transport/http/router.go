package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/config"
	"github.com/Skotchmaster/taskhub/internal/handlers"
	authmw "github.com/Skotchmaster/taskhub/internal/middleware/auth"
	"github.com/Skotchmaster/taskhub/internal/middleware/csrf"
	"github.com/Skotchmaster/taskhub/internal/middleware/ratelimit"
	"github.com/Skotchmaster/taskhub/internal/service"
)

type Deps struct {
	DB       *gorm.DB
	Services *service.Services
	Verifier authmw.Verifier
	Redis    *redis.Client

	RateLimit       config.RateLimitConfig
	CSRFEnabled     bool
	AccessCookieTTL time.Duration
	CookieSecure    bool
}

func Register(e *echo.Echo, d *Deps) {
	s := d.Services
	health := &handlers.HealthHandler{DB: d.DB}
	authH := &handlers.AuthHandler{Auth: s.Auth, AccessCookieTTL: d.AccessCookieTTL, CookieSecure: d.CookieSecure}
	users := &handlers.UserHandler{Users: s.Users}
	workspaces := &handlers.WorkspaceHandler{Workspaces: s.Workspaces}
	members := &handlers.MemberHandler{Members: s.Members}
	roles := &handlers.RoleHandler{Roles: s.Roles}
	invitations := &handlers.InvitationHandler{Invitations: s.Invitations}
	todos := &handlers.TodoHandler{Todos: s.Todos}
	statuses := &handlers.StatusHandler{Statuses: s.Statuses}

	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)

	if d.CSRFEnabled {
		cfg := csrf.DefaultConfig()
		cfg.Secure = d.CookieSecure
		cfg.SkipPaths = []string{"/auth/register", "/auth/login"}
		e.Use(csrf.Middleware(cfg))
	}

	auth := e.Group("/auth", ratelimit.TokenBucket(d.RateLimit, d.Redis))
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	requireAuth := authmw.RequireAuth(d.Verifier)

	me := e.Group("/users/me", requireAuth)
	me.GET("", users.Me)
	me.GET("/invitations", users.Invitations)

	ws := e.Group("/workspace", requireAuth)
	ws.POST("", workspaces.Create)
	ws.GET("", workspaces.List)
	ws.GET("/:id", workspaces.Get)
	ws.PUT("/:id", workspaces.Rename)
	ws.DELETE("/:id", workspaces.Delete)

	ws.GET("/:id/members", members.List)
	ws.PUT("/:id/members/:memberId", members.ChangeRole)
	ws.DELETE("/:id/members/:memberId", members.Remove)

	ws.GET("/:id/roles", roles.List)
	ws.POST("/:id/roles", roles.Create)
	ws.PUT("/:id/roles/:roleId", roles.Update)
	ws.DELETE("/:id/roles/:roleId", roles.Delete)

	ws.POST("/:id/invitations", invitations.Create)
	ws.GET("/:id/invitations", invitations.Get)
	ws.PUT("/:id/invitations", invitations.Respond)
	ws.DELETE("/:id/invitations/:invitationId", invitations.Delete)

	ws.POST("/:id/todos", todos.Create)
	ws.GET("/:id/todos", todos.List)
	ws.POST("/:id/statuses", statuses.Create)
	ws.GET("/:id/statuses", statuses.List)

	t := e.Group("/todos", requireAuth)
	t.POST("", todos.Create)
	t.GET("", todos.List)
	t.GET("/:id", todos.Get)
	t.PUT("/:id", todos.Update)
	t.DELETE("/:id", todos.Delete)

	st := e.Group("/status", requireAuth)
	st.POST("", statuses.Create)
	st.GET("", statuses.List)
	st.GET("/:id", statuses.Get)
	st.PUT("/:id", statuses.Rename)
	st.DELETE("/:id", statuses.Delete)
}
