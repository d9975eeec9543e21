package ports

import (
	"context"

	"course-share-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// EmailNotifier : внешний коллаборатор доставки писем.
// Ошибка доставки никогда не роняет вызывающую операцию, только логируется.
type EmailNotifier interface {
	SendWelcome(ctx context.Context, email string, username string) error
}
