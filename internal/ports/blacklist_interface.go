package ports

import (
	"context"
	"time"
)

type BlacklistRepositoryInterface interface {
	Insert(ctx context.Context, token string, expireAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type BlacklistServiceInterface interface {
	BlacklistToken(ctx context.Context, token string) error
	IsBlacklisted(ctx context.Context, token string) bool
}
