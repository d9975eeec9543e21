package repository

import (
	"context"
	"database/sql"
	"errors"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"
)

type CategoryRepository struct {
	*config.Database
}

func NewCategoryRepository(database *config.Database) *CategoryRepository {
	return &CategoryRepository{database}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `INSERT INTO categories (uuid, name, slug) VALUES ($1, $2, $3)`

	if _, err := r.DB.ExecContext(ctx, query, category.UUID, category.Name, category.Slug); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return util.LogError("[CategoryRepo] ошибка вставки категории в БД", err)
	}
	return nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `SELECT uuid, name, slug, created_at FROM categories WHERE slug = $1`
	return r.findOne(ctx, query, slug)
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	query := `SELECT uuid, name, slug, created_at FROM categories WHERE LOWER(name) = LOWER($1)`
	return r.findOne(ctx, query, name)
}

func (r *CategoryRepository) FindByUUID(ctx context.Context, uuid string) (*model.Category, error) {
	query := `SELECT uuid, name, slug, created_at FROM categories WHERE uuid = $1`
	return r.findOne(ctx, query, uuid)
}

func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT uuid, name, slug, created_at FROM categories ORDER BY name`

	var categories []*model.Category
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, util.LogError("[CategoryRepo] не удалось получить список категорий", err)
	}
	return categories, nil
}

func (r *CategoryRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Category, error) {
	var category model.Category
	if err := r.DB.GetContext(ctx, &category, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[CategoryRepo] ошибка поиска категории", err)
	}
	return &category, nil
}
