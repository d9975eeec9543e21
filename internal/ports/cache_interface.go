package ports

import (
	"context"

	"course-share-server/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetCourse(ctx context.Context, course *model.Course) error
	GetCourse(ctx context.Context, courseCode string) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseCode string) error
}
