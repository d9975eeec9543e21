package requestresponse

import "course-share-server/internal/model"

// CreateCourseRequest : тело запроса на создание курса.
// CourseCode опционален: пустое значение означает выдачу последовательного
// кода по префиксу категории.
type CreateCourseRequest struct {
	Title        string `json:"title" example:"Алгоритмы и структуры данных"`
	Description  string `json:"description" example:"Базовый курс по алгоритмам"`
	CategorySlug string `json:"category_slug" example:"computer-science"`
	CategoryName string `json:"category_name" example:"Computer Science"`
	CourseCode   string `json:"course_code" example:""`
}

// UpdateCourseRequest : тело запроса на обновление курса
type UpdateCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategorySlug string `json:"category_slug"`
	CategoryName string `json:"category_name"`
}

// CourseResponse : один курс
type CourseResponse struct {
	Response *model.Course `json:"response"`
}

// CourseListResponse : список курсов
type CourseListResponse struct {
	Response []*model.Course `json:"response"`
}

// CreateCategoryRequest : тело запроса на создание категории
type CreateCategoryRequest struct {
	Name string `json:"name" example:"Computer Science"`
}

// CategoryResponse : одна категория
type CategoryResponse struct {
	Response *model.Category `json:"response"`
}

// CategoryListResponse : список категорий
type CategoryListResponse struct {
	Response []*model.Category `json:"response"`
}
