package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"course-share-server/internal/model"
	"course-share-server/internal/model/requestresponse"
	"course-share-server/internal/security"
	"course-share-server/internal/service"

	"github.com/go-chi/chi/v5"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourse godoc
// @Summary Создание курса
// @Description Создаёт курс. Без явного course_code код выдаётся последовательным аллокатором по префиксу категории.
// @Tags Courses
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateCourseRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен"
// @Success 201 {object} requestresponse.CourseResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Код курса уже существует"
// @Failure 500 {object} requestresponse.ErrorResponse "Переполнение счётчика или ошибка хранилища"
// @Security ApiKeyAuth
// @Router /api/courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	var req requestresponse.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), service.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		CategorySlug: req.CategorySlug,
		CategoryName: req.CategoryName,
		CourseCode:   req.CourseCode,
	}, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrCourseCodeExists):
			sendErrorResponse(w, http.StatusConflict, "код курса уже существует")
		case errors.Is(err, model.ErrCourseCodeOverflow):
			sendErrorResponse(w, http.StatusInternalServerError, "исчерпаны коды курсов для категории")
		case errors.Is(err, model.ErrNotFound):
			sendErrorResponse(w, http.StatusBadRequest, "категория не найдена")
		default:
			sendErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	sendJSONResponse(w, http.StatusCreated, requestresponse.CourseResponse{Response: course})
}

// GetCourse godoc
// @Summary Курс по коду
// @Tags Courses
// @Produce json
// @Param course_code path string true "Код курса"
// @Success 200 {object} requestresponse.CourseResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/courses/{course_code} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseCode := chi.URLParam(r, "course_code")

	course, err := h.courseService.GetCourseByCode(r.Context(), courseCode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "курс не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.CourseResponse{Response: course})
}

// ListCourses godoc
// @Summary Список курсов
// @Tags Courses
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} requestresponse.CourseListResponse
// @Router /api/courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	courses, err := h.courseService.ListCourses(r.Context(), limit, offset)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.CourseListResponse{Response: courses})
}

// UpdateCourse godoc
// @Summary Обновление курса
// @Tags Courses
// @Accept json
// @Produce json
// @Param course_code path string true "Код курса"
// @Param body body requestresponse.UpdateCourseRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен"
// @Success 200 {object} requestresponse.CourseResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses/{course_code} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseCode := chi.URLParam(r, "course_code")

	var req requestresponse.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseCode, service.UpdateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		CategorySlug: req.CategorySlug,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "курс не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.CourseResponse{Response: course})
}

// DeleteCourse godoc
// @Summary Удаление курса
// @Tags Courses
// @Produce json
// @Param course_code path string true "Код курса"
// @Param Authorization header string true "Bearer токен"
// @Success 204 "Курс удалён"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses/{course_code} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseCode := chi.URLParam(r, "course_code")

	if err := h.courseService.DeleteCourse(r.Context(), courseCode); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "курс не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory godoc
// @Summary Создание категории
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateCategoryRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен"
// @Success 201 {object} requestresponse.CategoryResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/categories [post]
func (h *CourseHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}
	if req.Name == "" {
		sendErrorResponse(w, http.StatusBadRequest, "название категории обязательно")
		return
	}

	category, err := h.courseService.ResolveOrCreateCategory(r.Context(), req.Name)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusCreated, requestresponse.CategoryResponse{Response: category})
}

// ListCategories godoc
// @Summary Список категорий
// @Tags Categories
// @Produce json
// @Success 200 {object} requestresponse.CategoryListResponse
// @Router /api/categories [get]
func (h *CourseHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.courseService.ListCategories(r.Context())
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.CategoryListResponse{Response: categories})
}
