package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"course-share-server/internal/model"
	"course-share-server/internal/ports"
	"course-share-server/internal/repository"
	"course-share-server/internal/util"

	"github.com/google/uuid"
)

// createCourseAttempts ограничивает повторы вокруг пары "выдать код — сохранить
// курс": каждая неудачная попытка сжигает выданный номер и начинается заново
// со свежего захвата блокировки счётчика
const createCourseAttempts = 5

type CourseService struct {
	courseRepository   ports.CourseRepositoryInterface
	categoryRepository ports.CategoryRepositoryInterface
	codeAllocator      ports.CourseCodeAllocator
	cacheRepository    ports.CacheRepository
}

func NewCourseService(
	courseRepository ports.CourseRepositoryInterface,
	categoryRepository ports.CategoryRepositoryInterface,
	codeAllocator ports.CourseCodeAllocator,
	cacheRepository ports.CacheRepository,
) *CourseService {
	return &CourseService{
		courseRepository:   courseRepository,
		categoryRepository: categoryRepository,
		codeAllocator:      codeAllocator,
		cacheRepository:    cacheRepository,
	}
}

// CreateCourseInput : параметры создания курса. Категория задаётся slug-ом
// существующей либо названием (создаётся при отсутствии). Явный CourseCode
// обходит аллокатор после проверки уникальности.
type CreateCourseInput struct {
	Title        string
	Description  string
	CategorySlug string
	CategoryName string
	CourseCode   string
}

func (s *CourseService) CreateCourse(ctx context.Context, input CreateCourseInput, creatorUUID string) (*model.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("[CourseService] название курса обязательно")
	}

	category, err := s.resolveCategory(ctx, input.CategorySlug, input.CategoryName)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		CreatorUUID:  creatorUUID,
		CategoryUUID: category.UUID,
	}

	if candidate := strings.TrimSpace(input.CourseCode); candidate != "" {
		exists, err := s.courseRepository.ExistsByCode(ctx, candidate)
		if err != nil {
			return nil, util.LogError("[CourseService] ошибка проверки кода курса", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", model.ErrCourseCodeExists, candidate)
		}

		course.UUID = uuid.New().String()
		course.CourseCode = candidate
		if err := s.courseRepository.Create(ctx, course); err != nil {
			return nil, err
		}
		return course, nil
	}

	return s.createWithSequentialCode(ctx, course, BuildPrefixFromCategory(category.Name))
}

// createWithSequentialCode сохраняет курс с кодом от аллокатора.
// Нарушение уникальности при вставке курса означает, что выданный номер
// кем-то занят вручную: попытка бросается, номер сгорает, следующая итерация
// начинается со свежей выдачи. Переполнение счётчика не повторяется.
func (s *CourseService) createWithSequentialCode(ctx context.Context, course *model.Course, prefix string) (*model.Course, error) {
	for attempt := 1; attempt <= createCourseAttempts; attempt++ {
		code, err := s.codeAllocator.NextCode(ctx, prefix)
		if err != nil {
			if errors.Is(err, model.ErrCourseCodeOverflow) {
				return nil, err
			}
			return nil, util.LogError("[CourseService] ошибка выдачи кода курса", err)
		}

		course.UUID = uuid.New().String()
		course.CourseCode = code

		err = s.courseRepository.Create(ctx, course)
		if err == nil {
			return course, nil
		}
		if errors.Is(err, model.ErrCourseCodeExists) {
			log.Printf("[CourseService] код %s уже занят, номер сгорает, попытка %d/%d", code, attempt, createCourseAttempts)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("[CourseService] не удалось сохранить курс за %d попыток для префикса %s", createCourseAttempts, prefix)
}

func (s *CourseService) resolveCategory(ctx context.Context, slug, name string) (*model.Category, error) {
	if slug = strings.TrimSpace(slug); slug != "" {
		category, err := s.categoryRepository.FindBySlug(ctx, slug)
		if err != nil {
			return nil, util.LogError("[CourseService] категория по slug не найдена", err)
		}
		return category, nil
	}

	if name = strings.TrimSpace(name); name != "" {
		return s.ResolveOrCreateCategory(ctx, name)
	}

	return nil, fmt.Errorf("[CourseService] требуется slug или название категории")
}

// ResolveOrCreateCategory находит категорию по названию или создаёт новую.
// Гонка двух одновременных созданий одной категории разрешается повторным
// чтением после нарушения уникальности slug.
func (s *CourseService) ResolveOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	category, err := s.categoryRepository.FindByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	category = &model.Category{
		UUID: uuid.New().String(),
		Name: strings.TrimSpace(name),
		Slug: Slugify(name),
	}

	if err := s.categoryRepository.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			// категорию успел создать конкурирующий запрос
			return s.categoryRepository.FindByName(ctx, name)
		}
		return nil, util.LogError("[CourseService] не удалось создать категорию", err)
	}

	return category, nil
}

// GetCourseByCode : чтение курса через Redis с прогревом кэша из БД
func (s *CourseService) GetCourseByCode(ctx context.Context, courseCode string) (*model.Course, error) {
	course, err := s.cacheRepository.GetCourse(ctx, courseCode)
	if err != nil {
		log.Printf("[CourseService] ошибка кэширования: %v", err)
	}
	if course != nil {
		return course, nil
	}

	course, err = s.courseRepository.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepository.SetCourse(ctx, course); err != nil {
		log.Printf("[CourseService] не удалось положить курс в кэш: %v", err)
	}

	return course, nil
}

func (s *CourseService) ListCourses(ctx context.Context, limit, offset int) ([]*model.Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.courseRepository.List(ctx, limit, offset)
}

type UpdateCourseInput struct {
	Title        string
	Description  string
	CategorySlug string
	CategoryName string
}

func (s *CourseService) UpdateCourse(ctx context.Context, courseCode string, input UpdateCourseInput) (*model.Course, error) {
	course, err := s.courseRepository.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		course.Title = title
	}
	if input.Description != "" {
		course.Description = strings.TrimSpace(input.Description)
	}
	if input.CategorySlug != "" || input.CategoryName != "" {
		category, err := s.resolveCategory(ctx, input.CategorySlug, input.CategoryName)
		if err != nil {
			return nil, err
		}
		course.CategoryUUID = category.UUID
	}

	if err := s.courseRepository.Update(ctx, course); err != nil {
		return nil, err
	}

	if err := s.cacheRepository.DeleteCourse(ctx, courseCode); err != nil {
		log.Printf("[CourseService] не удалось инвалидировать кэш курса: %v", err)
	}

	return course, nil
}

func (s *CourseService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepository.List(ctx)
}

func (s *CourseService) DeleteCourse(ctx context.Context, courseCode string) error {
	if err := s.courseRepository.DeleteByCode(ctx, courseCode); err != nil {
		return err
	}

	if err := s.cacheRepository.DeleteCourse(ctx, courseCode); err != nil {
		log.Printf("[CourseService] не удалось инвалидировать кэш курса: %v", err)
	}

	return nil
}

// Slugify приводит название категории к slug: нижний регистр, пробелы
// заменяются дефисами, остальное отбрасывается.
func Slugify(name string) string {
	var b strings.Builder
	for _, c := range strings.TrimSpace(strings.ToLower(name)) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
		case unicode.IsSpace(c) || c == '-' || c == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
