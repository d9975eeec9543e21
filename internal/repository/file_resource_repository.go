package repository

import (
	"context"
	"database/sql"
	"errors"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"
)

type FileResourceRepository struct {
	*config.Database
}

func NewFileResourceRepository(database *config.Database) *FileResourceRepository {
	return &FileResourceRepository{database}
}

func (r *FileResourceRepository) Create(ctx context.Context, file *model.FileResource) error {
	query := `INSERT INTO file_resources (uuid, course_uuid, owner_uuid, filename, mime_type, storage_path)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctx, query,
		file.UUID,
		file.CourseUUID,
		file.OwnerUUID,
		file.Filename,
		file.MimeType,
		file.StoragePath,
	)
	if err != nil {
		return util.LogError("[FileRepo] ошибка вставки метаданных файла", err)
	}
	return nil
}

func (r *FileResourceRepository) FindByUUID(ctx context.Context, uuid string) (*model.FileResource, error) {
	query := `SELECT uuid, course_uuid, owner_uuid, filename, mime_type, storage_path, created_at
				FROM file_resources WHERE uuid = $1`

	var file model.FileResource
	if err := r.DB.GetContext(ctx, &file, query, uuid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[FileRepo] ошибка поиска файла", err)
	}
	return &file, nil
}

func (r *FileResourceRepository) ListByCourse(ctx context.Context, courseUUID string) ([]*model.FileResource, error) {
	query := `SELECT uuid, course_uuid, owner_uuid, filename, mime_type, storage_path, created_at
				FROM file_resources WHERE course_uuid = $1 ORDER BY created_at`

	var files []*model.FileResource
	if err := r.DB.SelectContext(ctx, &files, query, courseUUID); err != nil {
		return nil, util.LogError("[FileRepo] не удалось получить файлы курса", err)
	}
	return files, nil
}

func (r *FileResourceRepository) Delete(ctx context.Context, uuid string) error {
	query := `DELETE FROM file_resources WHERE uuid = $1`

	if _, err := r.DB.ExecContext(ctx, query, uuid); err != nil {
		return util.LogError("[FileRepo] не удалось удалить метаданные файла", err)
	}
	return nil
}
