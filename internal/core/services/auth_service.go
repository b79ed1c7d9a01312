package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

var (
	ErrMissingSecret = errors.New("admin jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid admin token")
)

const adminAudience = "premios-admin"

type AuthService struct {
	jwtSecret []byte
	clock     ports.Clock
}

func NewAuthService(secret string, clock ports.Clock) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		clock:     clock,
	}
}

func (s *AuthService) IssueToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", ErrMissingSecret
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{adminAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) Verify(ctx context.Context, tokenStr string) (*ports.AdminClaims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(adminAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &ports.AdminClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
