package security_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: "15m",
		Issuer:         "course-share-server",
	}
}

// Выпущенный токен проходит валидацию и несёт UUID пользователя
func TestGenerateAndValidate(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())

	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserUUID)
	assert.Equal(t, "course-share-server", claims.Issuer)
}

// Просроченный токен даёт ErrTokenExpired: токен выпускается в прошлом через
// подменяемые часы, а валидируется настоящими
func TestValidate_ExpiredToken(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	issuer := security.NewJWTServiceWithClock(testJWTConfig(), past)

	token, err := issuer.GenerateAccessToken("u1")
	require.NoError(t, err)

	validator := security.NewJWTService(testJWTConfig())
	_, err = validator.ValidateJWT(token)

	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

// Токен, подписанный другим ключом, отклоняется как невалидный
func TestValidate_WrongSecret(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())
	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.SecretKey = "another-secret"
	other := security.NewJWTService(otherCfg)

	_, err = other.ValidateJWT(token)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

// ExpiryOf читает exp даже из просроченного токена
func TestExpiryOf(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := security.NewJWTServiceWithClock(testJWTConfig(), func() time.Time { return issuedAt })

	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	expireAt, err := svc.ExpiryOf(token)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(15*time.Minute).Unix(), expireAt.Unix())
}

// Мусорная строка не разбирается
func TestExpiryOf_Garbage(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())

	_, err := svc.ExpiryOf("not-a-jwt")
	assert.Error(t, err)
}

// Refresh-токены непрозрачны и уникальны
func TestGenerateRefreshToken(t *testing.T) {
	first, err := security.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := security.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

type staticBlacklist struct {
	blocked map[string]bool
}

func (b *staticBlacklist) IsBlacklisted(_ context.Context, token string) bool {
	return b.blocked[token]
}

// Middleware: валидный токен пропускается, claims оказываются в контексте
func TestJWTMiddleware_ValidToken(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())
	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	var gotUUID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := security.GetClaimsFromContext(r.Context())
		require.NoError(t, err)
		gotUUID = claims.UserUUID
	})

	handler := security.JWTMiddleware(svc, &staticBlacklist{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gotUUID)
}

// Middleware: отозванный токен отклоняется до проверки подписи
func TestJWTMiddleware_BlacklistedToken(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())
	token, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("запрос не должен был дойти до обработчика")
	})

	handler := security.JWTMiddleware(svc, &staticBlacklist{blocked: map[string]bool{token: true}})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Middleware: без заголовка Authorization — 401
func TestJWTMiddleware_MissingHeader(t *testing.T) {
	svc := security.NewJWTService(testJWTConfig())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("запрос не должен был дойти до обработчика")
	})

	handler := security.JWTMiddleware(svc, &staticBlacklist{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
