package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"
)

type CourseRepository struct {
	*config.Database
}

func NewCourseRepository(database *config.Database) *CourseRepository {
	return &CourseRepository{database}
}

// Create сохраняет курс. Нарушение уникальности course_code возвращается как
// model.ErrCourseCodeExists — потребитель аллокатора повторяет попытку с новым
// номером, уже выданный номер не переиспользуется.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `INSERT INTO courses (uuid, course_code, title, description, creator_uuid, category_uuid)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctx, query,
		course.UUID,
		course.CourseCode,
		course.Title,
		course.Description,
		course.CreatorUUID,
		course.CategoryUUID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", model.ErrCourseCodeExists, course.CourseCode)
		}
		return util.LogError("[CourseRepo] ошибка вставки курса в БД", err)
	}

	return nil
}

func (r *CourseRepository) FindByCode(ctx context.Context, courseCode string) (*model.Course, error) {
	query := `SELECT uuid, course_code, title, description, creator_uuid, category_uuid, created_at
				FROM courses WHERE course_code = $1`

	var course model.Course
	if err := r.DB.GetContext(ctx, &course, query, courseCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[CourseRepo] ошибка поиска курса", err)
	}
	return &course, nil
}

func (r *CourseRepository) ExistsByCode(ctx context.Context, courseCode string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE course_code = $1)`

	if err := r.DB.GetContext(ctx, &exists, query, courseCode); err != nil {
		return false, util.LogError("[CourseRepo] ошибка проверки кода курса", err)
	}
	return exists, nil
}

func (r *CourseRepository) List(ctx context.Context, limit int, offset int) ([]*model.Course, error) {
	query := `SELECT uuid, course_code, title, description, creator_uuid, category_uuid, created_at
				FROM courses ORDER BY created_at DESC, uuid LIMIT $1 OFFSET $2`

	var courses []*model.Course
	if err := r.DB.SelectContext(ctx, &courses, query, limit, offset); err != nil {
		return nil, util.LogError("[CourseRepo] не удалось получить список курсов", err)
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `UPDATE courses SET title = $2, description = $3, category_uuid = $4 WHERE uuid = $1`

	result, err := r.DB.ExecContext(ctx, query, course.UUID, course.Title, course.Description, course.CategoryUUID)
	if err != nil {
		return util.LogError("[CourseRepo] не удалось обновить курс", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[CourseRepo] не удалось проверить, обновлён ли курс", err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *CourseRepository) DeleteByCode(ctx context.Context, courseCode string) error {
	query := `DELETE FROM courses WHERE course_code = $1`

	result, err := r.DB.ExecContext(ctx, query, courseCode)
	if err != nil {
		return util.LogError("[CourseRepo] не удалось удалить курс", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[CourseRepo] не удалось проверить, удалён ли курс", err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}
