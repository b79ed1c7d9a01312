package ports

import (
	"context"
	"time"
)

// AdminClaims identifies the caller of the admin API.
type AdminClaims struct {
	Subject   string
	ExpiresAt time.Time
}

type AdminAuthService interface {
	IssueToken(ctx context.Context, subject string, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string) (*AdminClaims, error)
}
