package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"course-share-server/internal/model"
	"course-share-server/internal/model/requestresponse"
	"course-share-server/internal/security"
	"course-share-server/internal/service"

	"github.com/go-chi/chi/v5"
)

type FileResourceHandler struct {
	fileService *service.FileResourceService
}

func NewFileResourceHandler(fileService *service.FileResourceService) *FileResourceHandler {
	return &FileResourceHandler{fileService: fileService}
}

// CreateFile godoc
// @Summary Регистрация файла курса
// @Description Сохраняет метаданные файла и возвращает pre-signed URL для прямой загрузки в объектное хранилище
// @Tags Files
// @Accept json
// @Produce json
// @Param course_code path string true "Код курса"
// @Param body body requestresponse.CreateFileRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен"
// @Success 201 {object} requestresponse.CreateFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/courses/{course_code}/files [post]
func (h *FileResourceHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	courseCode := chi.URLParam(r, "course_code")

	var req requestresponse.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	file, putURL, err := h.fileService.CreateFile(r.Context(), courseCode, claims.UserUUID, req.Filename, req.MimeType)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "курс не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp requestresponse.CreateFileResponse
	resp.Response.File = file
	resp.Response.PutURL = putURL
	sendJSONResponse(w, http.StatusCreated, resp)
}

// GetFile godoc
// @Summary Файл со ссылкой на скачивание
// @Tags Files
// @Produce json
// @Param file_uuid path string true "UUID файла"
// @Success 200 {object} requestresponse.FileResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_uuid} [get]
func (h *FileResourceHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_uuid")

	file, err := h.fileService.GetDownloadURL(r.Context(), fileUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "файл не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.FileResponse{Response: file})
}

// ListFiles godoc
// @Summary Файлы курса
// @Tags Files
// @Produce json
// @Param course_code path string true "Код курса"
// @Success 200 {object} requestresponse.FileListResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/courses/{course_code}/files [get]
func (h *FileResourceHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	courseCode := chi.URLParam(r, "course_code")

	files, err := h.fileService.ListByCourse(r.Context(), courseCode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "курс не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	sendJSONResponse(w, http.StatusOK, requestresponse.FileListResponse{Response: files})
}

// DeleteFile godoc
// @Summary Удаление файла
// @Tags Files
// @Produce json
// @Param file_uuid path string true "UUID файла"
// @Param Authorization header string true "Bearer токен"
// @Success 204 "Файл удалён"
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/files/{file_uuid} [delete]
func (h *FileResourceHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	fileUUID := chi.URLParam(r, "file_uuid")

	if err := h.fileService.DeleteFile(r.Context(), fileUUID, claims.UserUUID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "файл не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusForbidden, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
