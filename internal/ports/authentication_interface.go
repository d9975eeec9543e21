package ports

import (
	"context"

	"course-share-server/internal/model"
)

type AuthenticationService interface {
	Login(ctx context.Context, username, password, device, ipAddress string) (*model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}
