package auth

import (
	"context"
	"time"
)

// RefreshToken is a persisted, revocable refresh token.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// RefreshTokenRepository stores refresh tokens so they survive restarts
// and can be revoked server-side.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	Get(ctx context.Context, token string) (RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}
