package ports

import (
	"context"

	"course-share-server/internal/model"
)

type FileResourceRepositoryInterface interface {
	Create(ctx context.Context, file *model.FileResource) error
	FindByUUID(ctx context.Context, uuid string) (*model.FileResource, error)
	ListByCourse(ctx context.Context, courseUUID string) ([]*model.FileResource, error)
	Delete(ctx context.Context, uuid string) error
}
