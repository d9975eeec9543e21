package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/model/requestresponse"
	"course-share-server/internal/ports"
	"course-share-server/internal/security"
)

// refreshCookieName : HTTP-only cookie с refresh-токеном, корневой путь,
// многодневный max-age. Это фиксированный транспортный контракт для клиентов.
const refreshCookieName = "refreshToken"

type AuthenticationHandler struct {
	ports.AuthenticationService
	cfg *config.AppConfig
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService, cfg *config.AppConfig) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, cfg}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access токена по имени пользователя и паролю. Refresh токен устанавливается в HTTP-only cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		sendErrorResponse(w, http.StatusBadRequest, "username и password обязательны")
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Username, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			sendErrorResponse(w, http.StatusUnauthorized, "неверный логин или пароль")
			return
		}
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	resp := requestresponse.LoginResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.UserUUID = tokens.UserUUID
	sendJSONResponse(w, http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Ротирует refresh токен из cookie (или тела запроса) и выдаёт новый access токен
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest false "Refresh токен для клиентов без cookie"
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный, просроченный или повторно использованный refresh токен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken := h.refreshTokenFromRequest(r)
	if refreshToken == "" {
		sendErrorResponse(w, http.StatusUnauthorized, "refresh токен не предъявлен")
		return
	}

	tokens, err := h.AuthenticationService.Refresh(ctx, refreshToken)
	if err != nil {
		// наружу все отказы одинаковы, детали различаются только в логах
		switch {
		case errors.Is(err, model.ErrTokenNotFound),
			errors.Is(err, model.ErrTokenExpired),
			errors.Is(err, model.ErrReuseDetected):
			log.Println(err)
			sendErrorResponse(w, http.StatusUnauthorized, "не удалось обновить токены")
		default:
			log.Println(err)
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	resp := requestresponse.RefreshTokenResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	sendJSONResponse(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает access токен из заголовка Authorization и refresh токен из cookie. Идемпотентен, не падает на невалидных токенах.
// @Tags Authentication
// @Produce json
// @Param Authorization header string false "Bearer токен"
// @Success 200 {object} requestresponse.LogoutResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accessToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	refreshToken := h.refreshTokenFromRequest(r)

	// best effort: отзываются все непустые предъявленные токены
	if err := h.AuthenticationService.Logout(ctx, accessToken, refreshToken); err != nil {
		log.Printf("ошибка logout: %v", err)
	}

	h.clearRefreshCookie(w)

	resp := requestresponse.LogoutResponse{}
	resp.Response.Revoked = true
	sendJSONResponse(w, http.StatusOK, resp)
}

// GetCurrentUser godoc
// @Summary UUID текущего пользователя
// @Description Возвращает UUID пользователя по access токену
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен"
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.UserUUID
	sendJSONResponse(w, http.StatusOK, resp)
}

func (h *AuthenticationHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthenticationHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	maxAge := 48 * time.Hour
	if ttl, err := time.ParseDuration(h.cfg.Auth.RefreshTokenTTL); err == nil {
		maxAge = ttl
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthenticationHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
