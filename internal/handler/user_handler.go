package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"course-share-server/internal/model"
	"course-share-server/internal/model/requestresponse"
	"course-share-server/internal/security"
	"course-share-server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUser godoc
// @Summary Регистрация пользователя
// @Description Создаёт нового пользователя и отправляет приветственное письмо
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.RegisterResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Имя пользователя занято"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/register [post]
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "занято"):
			sendErrorResponse(w, http.StatusConflict, "имя пользователя уже занято")
		case strings.Contains(err.Error(), "ошибка создания пользователя"),
			strings.Contains(err.Error(), "ошибка проверки"):
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		default:
			sendErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	resp := requestresponse.RegisterResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Username = user.Username
	resp.Response.CreatedAt = user.CreatedAt
	sendJSONResponse(w, http.StatusCreated, resp)
}

// GetProfile godoc
// @Summary Профиль текущего пользователя
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен"
// @Success 200 {object} requestresponse.UserProfileResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), claims.UserUUID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendErrorResponse(w, http.StatusNotFound, "пользователь не найден")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	resp := requestresponse.UserProfileResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Username = user.Username
	resp.Response.Email = user.Email
	resp.Response.CreatedAt = user.CreatedAt
	sendJSONResponse(w, http.StatusOK, resp)
}
