package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

// tokenAttempts bounds regeneration after a refresh token digest collision.
const tokenAttempts = 3

type AuthService struct {
	Users      UserStore
	Sessions   SessionStore
	Hasher     *hash.Hasher
	Tokens     *tokens.Service
	RefreshTTL time.Duration

	now func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, h *hash.Hasher, t *tokens.Service, refreshTTL time.Duration) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Hasher: h, Tokens: t, RefreshTTL: refreshTTL, now: time.Now}
}

// AuthResult is what the handlers turn into cookies.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	f := fieldErrors{}
	name := checkText(f, "name", req.Name, maxNameLen)
	email := checkEmail(f, "email", req.Email)
	checkPassword(f, req.Password)
	if err := f.err(); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "validation", "error", err)
		return nil, err
	}

	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		l.Warn("register_failed", "status", 409, "reason", "email exists")
		return nil, fail(ErrConflict, "email already registered")
	}

	digest, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Name: name, Email: email, PasswordHash: digest}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("register_failed", "status", 409, "reason", "email exists")
			return nil, fail(ErrConflict, "email already registered")
		}
		return nil, err
	}

	res, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	l.Info("register_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	f := fieldErrors{}
	email := normalizeEmail(req.Email)
	if email == "" {
		f.add("email", "is required")
	}
	if req.Password == "" {
		f.add("password", "is required")
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, fail(ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	ok, err := s.Hasher.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, fail(ErrUnauthorized, "invalid email or password")
	}

	res, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := s.clock()
	exp := now.Add(s.RefreshTTL)

	var raw string
	for attempt := 1; ; attempt++ {
		var err error
		raw, err = tokens.NewRefreshToken()
		if err != nil {
			return nil, err
		}
		err = s.Sessions.CreateSession(ctx, &models.Session{
			UserID:       user.ID,
			RefreshToken: tokens.Sha256Hex(raw),
			ExpiresAt:    exp,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrConflict) || attempt == tokenAttempts {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	access, _, err := s.Tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: raw, RefreshExp: exp}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// dead afterwards; replaying it yields ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")
	if raw == "" {
		l.Warn("refresh_rejected", "status", 404, "reason", "no refresh cookie")
		return nil, fail(ErrNotFound, "refresh token not found")
	}

	now := s.clock()
	oldHash := tokens.Sha256Hex(raw)
	sess, err := s.Sessions.FindSessionByRefreshToken(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_rejected", "status", 401, "reason", "unknown or rotated token")
			return nil, fail(ErrUnauthorized, "invalid refresh token")
		}
		return nil, err
	}
	if sess.Revoked {
		l.Warn("refresh_rejected", "status", 401, "reason", "revoked", "session_id", sess.ID)
		return nil, fail(ErrUnauthorized, "refresh token revoked")
	}
	if sess.Expired(now) {
		l.Warn("refresh_rejected", "status", 401, "reason", "expired", "session_id", sess.ID)
		return nil, fail(ErrUnauthorized, "refresh token expired")
	}

	user, err := s.Users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	var next string
	for attempt := 1; ; attempt++ {
		next, err = tokens.NewRefreshToken()
		if err != nil {
			return nil, err
		}
		err = s.Sessions.RotateSession(ctx, sess.ID, oldHash, tokens.Sha256Hex(next), now)
		if err == nil {
			break
		}
		if errors.Is(err, repo.ErrSessionInactive) || errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_rejected", "status", 401, "reason", "lost rotation race", "session_id", sess.ID)
			return nil, fail(ErrUnauthorized, "invalid refresh token")
		}
		if !errors.Is(err, repo.ErrConflict) || attempt == tokenAttempts {
			return nil, fmt.Errorf("rotate session: %w", err)
		}
	}

	access, _, err := s.Tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	l.Info("refresh_success", "user_id", user.ID, "session_id", sess.ID)
	return &AuthResult{User: user, AccessToken: access, RefreshToken: next, RefreshExp: sess.ExpiresAt}, nil
}

// Logout revokes the session behind raw. A second logout with the same token
// is ErrUnauthorized.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	if raw == "" {
		l.Warn("logout_failed", "status", 404, "reason", "no refresh cookie")
		return fail(ErrNotFound, "refresh token not found")
	}

	sess, err := s.Sessions.FindSessionByRefreshToken(ctx, tokens.Sha256Hex(raw))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("logout_failed", "status", 404, "reason", "unknown session")
		}
		return notFound(err, "session not found")
	}
	if sess.Revoked {
		l.Warn("logout_failed", "status", 401, "reason", "already revoked", "session_id", sess.ID)
		return fail(ErrUnauthorized, "session already revoked")
	}

	changed, err := s.Sessions.RevokeSession(ctx, sess.ID, s.clock())
	if err != nil {
		return notFound(err, "session not found")
	}
	if !changed {
		l.Warn("logout_failed", "status", 401, "reason", "revoked concurrently", "session_id", sess.ID)
		return fail(ErrUnauthorized, "session already revoked")
	}
	l.Info("logout_success", "user_id", sess.UserID, "session_id", sess.ID)
	return nil
}
