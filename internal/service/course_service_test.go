package service_test

import (
	"context"
	"errors"
	"testing"

	"course-share-server/internal/model"
	"course-share-server/internal/service"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) FindByCode(ctx context.Context, courseCode string) (*model.Course, error) {
	args := m.Called(ctx, courseCode)
	if c, ok := args.Get(0).(*model.Course); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseRepository) ExistsByCode(ctx context.Context, courseCode string) (bool, error) {
	args := m.Called(ctx, courseCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, limit int, offset int) ([]*model.Course, error) {
	args := m.Called(ctx, limit, offset)
	if c, ok := args.Get(0).([]*model.Course); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) DeleteByCode(ctx context.Context, courseCode string) error {
	args := m.Called(ctx, courseCode)
	return args.Error(0)
}

// MockCategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if c, ok := args.Get(0).(*model.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if c, ok := args.Get(0).(*model.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) FindByUUID(ctx context.Context, uuid string) (*model.Category, error) {
	args := m.Called(ctx, uuid)
	if c, ok := args.Get(0).(*model.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]*model.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCodeAllocator
type MockCodeAllocator struct {
	mock.Mock
}

func (m *MockCodeAllocator) NextCode(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

// MockCacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetCourse(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCacheRepository) GetCourse(ctx context.Context, courseCode string) (*model.Course, error) {
	args := m.Called(ctx, courseCode)
	if c, ok := args.Get(0).(*model.Course); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteCourse(ctx context.Context, courseCode string) error {
	args := m.Called(ctx, courseCode)
	return args.Error(0)
}

func newTestCourseService() (*service.CourseService, *MockCourseRepository, *MockCategoryRepository, *MockCodeAllocator, *MockCacheRepository) {
	mockCourses := new(MockCourseRepository)
	mockCategories := new(MockCategoryRepository)
	mockAllocator := new(MockCodeAllocator)
	mockCache := new(MockCacheRepository)

	svc := service.NewCourseService(mockCourses, mockCategories, mockAllocator, mockCache)
	return svc, mockCourses, mockCategories, mockAllocator, mockCache
}

var testCategory = &model.Category{UUID: "cat1", Name: "Computer Science", Slug: "computer-science"}

// 1. Создание с последовательным кодом
func TestCreateCourse_SequentialCode(t *testing.T) {
	svc, mockCourses, mockCategories, mockAllocator, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockAllocator.On("NextCode", ctx, "CO").Return("CO-001", nil)
	mockCourses.On("Create", ctx, mock.MatchedBy(func(c *model.Course) bool {
		return c.CourseCode == "CO-001" && c.Title == "Алгоритмы" && c.CreatorUUID == "u1"
	})).Return(nil)

	course, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
	}, "u1")

	assert.NoError(t, err)
	assert.Equal(t, "CO-001", course.CourseCode)
	mockAllocator.AssertExpectations(t)
	mockCourses.AssertExpectations(t)
}

// 2. Занятый код сжигает номер, следующая попытка идёт со свежей выдачей
func TestCreateCourse_BurnsNumberOnCollision(t *testing.T) {
	svc, mockCourses, mockCategories, mockAllocator, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockAllocator.On("NextCode", ctx, "CO").Return("CO-007", nil).Once()
	mockAllocator.On("NextCode", ctx, "CO").Return("CO-008", nil).Once()
	mockCourses.On("Create", ctx, mock.MatchedBy(func(c *model.Course) bool {
		return c.CourseCode == "CO-007"
	})).Return(model.ErrCourseCodeExists).Once()
	mockCourses.On("Create", ctx, mock.MatchedBy(func(c *model.Course) bool {
		return c.CourseCode == "CO-008"
	})).Return(nil).Once()

	course, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
	}, "u1")

	assert.NoError(t, err)
	assert.Equal(t, "CO-008", course.CourseCode)
	mockAllocator.AssertExpectations(t)
	mockCourses.AssertExpectations(t)
}

// 3. Бюджет попыток исчерпан
func TestCreateCourse_RetryBudgetExhausted(t *testing.T) {
	svc, mockCourses, mockCategories, mockAllocator, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockAllocator.On("NextCode", ctx, "CO").Return("CO-007", nil).Times(5)
	mockCourses.On("Create", ctx, mock.Anything).Return(model.ErrCourseCodeExists).Times(5)

	_, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
	}, "u1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не удалось сохранить курс")
	mockAllocator.AssertExpectations(t)
	mockCourses.AssertExpectations(t)
}

// 4. Переполнение счётчика не повторяется
func TestCreateCourse_OverflowNotRetried(t *testing.T) {
	svc, mockCourses, mockCategories, mockAllocator, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockAllocator.On("NextCode", ctx, "CO").Return("", model.ErrCourseCodeOverflow).Once()

	_, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
	}, "u1")

	assert.ErrorIs(t, err, model.ErrCourseCodeOverflow)
	mockCourses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockAllocator.AssertExpectations(t)
}

// 5. Явный код обходит аллокатор после проверки уникальности
func TestCreateCourse_ExplicitCode(t *testing.T) {
	svc, mockCourses, mockCategories, mockAllocator, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockCourses.On("ExistsByCode", ctx, "CS-500").Return(false, nil)
	mockCourses.On("Create", ctx, mock.MatchedBy(func(c *model.Course) bool {
		return c.CourseCode == "CS-500"
	})).Return(nil)

	course, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
		CourseCode:   "CS-500",
	}, "u1")

	assert.NoError(t, err)
	assert.Equal(t, "CS-500", course.CourseCode)
	mockAllocator.AssertNotCalled(t, "NextCode", mock.Anything, mock.Anything)
}

// 6. Явный код занят
func TestCreateCourse_ExplicitCodeTaken(t *testing.T) {
	svc, mockCourses, mockCategories, _, _ := newTestCourseService()
	ctx := context.Background()

	mockCategories.On("FindBySlug", ctx, "computer-science").Return(testCategory, nil)
	mockCourses.On("ExistsByCode", ctx, "CS-500").Return(true, nil)

	_, err := svc.CreateCourse(ctx, service.CreateCourseInput{
		Title:        "Алгоритмы",
		CategorySlug: "computer-science",
		CourseCode:   "CS-500",
	}, "u1")

	assert.ErrorIs(t, err, model.ErrCourseCodeExists)
	mockCourses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 7. Гонка создания категории: нарушение уникальности разрешается
// повторным чтением
func TestResolveOrCreateCategory_Race(t *testing.T) {
	svc, _, mockCategories, _, _ := newTestCourseService()
	ctx := context.Background()

	winner := &model.Category{UUID: "cat2", Name: "Math", Slug: "math"}

	mockCategories.On("FindByName", ctx, "Math").Return(nil, model.ErrNotFound).Once()
	mockCategories.On("Create", ctx, mock.Anything).Return(&pq.Error{Code: "23505"})
	mockCategories.On("FindByName", ctx, "Math").Return(winner, nil).Once()

	category, err := svc.ResolveOrCreateCategory(ctx, "Math")

	assert.NoError(t, err)
	assert.Equal(t, "cat2", category.UUID)
	mockCategories.AssertExpectations(t)
}

// 8. Чтение курса: попадание в кэш не трогает БД
func TestGetCourseByCode_CacheHit(t *testing.T) {
	svc, mockCourses, _, _, mockCache := newTestCourseService()
	ctx := context.Background()

	cached := &model.Course{UUID: "c1", CourseCode: "CS-001"}
	mockCache.On("GetCourse", ctx, "CS-001").Return(cached, nil)

	course, err := svc.GetCourseByCode(ctx, "CS-001")

	assert.NoError(t, err)
	assert.Equal(t, "c1", course.UUID)
	mockCourses.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
}

// 9. Промах кэша: курс читается из БД и прогревает кэш
func TestGetCourseByCode_CacheMiss(t *testing.T) {
	svc, mockCourses, _, _, mockCache := newTestCourseService()
	ctx := context.Background()

	stored := &model.Course{UUID: "c1", CourseCode: "CS-001"}
	mockCache.On("GetCourse", ctx, "CS-001").Return(nil, nil)
	mockCourses.On("FindByCode", ctx, "CS-001").Return(stored, nil)
	mockCache.On("SetCourse", ctx, stored).Return(nil)

	course, err := svc.GetCourseByCode(ctx, "CS-001")

	assert.NoError(t, err)
	assert.Equal(t, "c1", course.UUID)
	mockCache.AssertExpectations(t)
	mockCourses.AssertExpectations(t)
}

// 10. Ошибка кэша не блокирует чтение из БД
func TestGetCourseByCode_CacheErrorIgnored(t *testing.T) {
	svc, mockCourses, _, _, mockCache := newTestCourseService()
	ctx := context.Background()

	stored := &model.Course{UUID: "c1", CourseCode: "CS-001"}
	mockCache.On("GetCourse", ctx, "CS-001").Return(nil, errors.New("redis down"))
	mockCourses.On("FindByCode", ctx, "CS-001").Return(stored, nil)
	mockCache.On("SetCourse", ctx, stored).Return(errors.New("redis down"))

	course, err := svc.GetCourseByCode(ctx, "CS-001")

	assert.NoError(t, err)
	assert.Equal(t, "c1", course.UUID)
}
