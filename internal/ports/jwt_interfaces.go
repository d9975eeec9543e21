package ports

import (
	"context"
	"time"

	"course-share-server/internal/model"
	"course-share-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessToken(userUUID string) (string, error)
	ValidateJWT(tokenString string) (*security.Claims, error)
	ExpiryOf(tokenString string) (time.Time, error)
}

type RefreshTokenRepositoryInterface interface {
	// SaveWithEviction сохраняет новую сессию, предварительно отозвав самую
	// старую активную, если пользователь упёрся в лимит maxSessions
	SaveWithEviction(ctx context.Context, refreshToken *model.RefreshToken, maxSessions int) error
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	// RevokeByUUID выполняет условный отзыв "revoked = TRUE, если ещё не отозван"
	// и сообщает, выиграл ли вызывающий эту гонку
	RevokeByUUID(ctx context.Context, uuid string) (bool, error)
	RevokeByToken(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userUUID string) error
}

type RefreshTokenServiceInterface interface {
	Create(ctx context.Context, userUUID, device, ipAddress string) (*model.RefreshToken, error)
	Validate(ctx context.Context, token string) (*model.RefreshToken, error)
	Rotate(ctx context.Context, session *model.RefreshToken) (*model.RefreshToken, error)
	RevokeByToken(ctx context.Context, token string) error
}
