package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingSigningKey = errors.New("signing key is not configured")
)

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService refuses to run without a key; there is no built-in fallback secret.
func NewService(secret []byte, accessTTL time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Service{secret: key, ttl: accessTTL, now: time.Now}, nil
}


func (s *Service) IssueAccessToken(userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := AccessClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// VerifyAccessToken never refreshes; an expired token is just ErrInvalidToken.
func (s *Service) VerifyAccessToken(token string) (Identity, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}
	return Identity{UserID: id, Email: claims.Email}, nil
}
