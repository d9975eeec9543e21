package ports

import (
	"context"

	"course-share-server/internal/model"
)

// CourseCodeAllocator выдаёт уникальные человекочитаемые коды вида PREFIX-NNN.
// Каждый вызов сжигает номер счётчика, даже если потребитель кода не смог
// им воспользоваться.
type CourseCodeAllocator interface {
	NextCode(ctx context.Context, prefix string) (string, error)
}

type CourseCodeCounterRepositoryInterface interface {
	NextNumber(ctx context.Context, prefix string, maxNumber int) (int, error)
}

type CourseRepositoryInterface interface {
	Create(ctx context.Context, course *model.Course) error
	FindByCode(ctx context.Context, courseCode string) (*model.Course, error)
	ExistsByCode(ctx context.Context, courseCode string) (bool, error)
	List(ctx context.Context, limit int, offset int) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	DeleteByCode(ctx context.Context, courseCode string) error
}

type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *model.Category) error
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	FindByUUID(ctx context.Context, uuid string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
}
