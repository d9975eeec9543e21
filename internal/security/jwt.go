package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
	now func() time.Time
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg, time.Now}
}

// NewJWTServiceWithClock : конструктор с подменяемыми часами для тестов
func NewJWTServiceWithClock(cfg *config.JWTConfig, now func() time.Time) *JWTService {
	return &JWTService{cfg, now}
}

// GenerateAccessToken выпускает подписанный access-токен с фиксированным TTL.
// Токен несёт только subject (UUID пользователя), iat и exp.
func (service *JWTService) GenerateAccessToken(userUUID string) (string, error) {
	ttl, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", util.LogError("ошибка парсинга access_token_ttl", err)
	}

	issuedAt := service.now()
	claims := Claims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    service.Issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return accessToken, nil
}

// ValidateJWT проверяет подпись и срок жизни access-токена.
// Просроченный токен возвращает model.ErrTokenExpired, любой другой дефект —
// model.ErrTokenInvalid.
func (service *JWTService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	}, jwt.WithTimeFunc(service.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !jwtToken.Valid {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}

// ExpiryOf возвращает exp токена без проверки подписи и срока жизни.
// Используется чёрным списком для выбора TTL записи: отзыв обязан сработать
// даже для битой строки, поэтому ошибка здесь означает лишь переход на
// консервативный TTL по умолчанию, а не отказ в отзыве.
func (service *JWTService) ExpiryOf(jwtTokenStr string) (time.Time, error) {
	var claims = &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(jwtTokenStr, claims); err != nil {
		return time.Time{}, fmt.Errorf("не удалось разобрать токен: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("в токене отсутствует exp")
	}

	return claims.ExpiresAt.Time, nil
}

// GenerateRefreshToken создаёт непрозрачный refresh-токен: 32 случайных байта
// в base64url. Токен не несёт никаких claims, его единственная задача — поиск
// сессии в хранилище по точному совпадению строки.
func GenerateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", util.LogError("ошибка генерации refresh токена", err)
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// BlacklistChecker : проверка access-токена по чёрному списку
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, token string) bool
}

// JWTMiddleware проверяет Bearer-токен: сначала чёрный список, затем подпись
// и срок жизни. Claims успешно прошедшего проверку токена кладутся в контекст
// запроса — принципал всегда передаётся явно, без глобального состояния.
func JWTMiddleware(jwtService *JWTService, blacklist BlacklistChecker) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, blacklist, next))
	}
}

func handleAuthentication(jwtService *JWTService, blacklist BlacklistChecker, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		if blacklist.IsBlacklisted(request.Context(), token) {
			log.Printf("предъявлен отозванный access токен")
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := jwtService.ValidateJWT(token)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
