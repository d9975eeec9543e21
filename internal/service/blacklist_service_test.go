package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"course-share-server/config"
	"course-share-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBlacklistRepository
type MockBlacklistRepository struct {
	mock.Mock
}

func (m *MockBlacklistRepository) Insert(ctx context.Context, token string, expireAt time.Time) error {
	args := m.Called(ctx, token, expireAt)
	return args.Error(0)
}

func (m *MockBlacklistRepository) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func newTestBlacklistService() (*service.BlacklistService, *MockBlacklistRepository, *MockJWTService) {
	mockRepo := new(MockBlacklistRepository)
	mockJWT := new(MockJWTService)
	cfg := &config.BlacklistConfig{FallbackTTL: "5m", SweepInterval: "1h"}
	return service.NewBlacklistService(mockRepo, mockJWT, cfg), mockRepo, mockJWT
}

// 1. TTL записи берётся из собственного exp токена
func TestBlacklistToken_UsesTokenExpiry(t *testing.T) {
	svc, mockRepo, mockJWT := newTestBlacklistService()
	ctx := context.Background()

	expireAt := time.Now().Add(10 * time.Minute).UTC()

	mockRepo.On("Exists", ctx, "acc").Return(false, nil)
	mockJWT.On("ExpiryOf", "acc").Return(expireAt, nil)
	mockRepo.On("Insert", ctx, "acc", expireAt).Return(nil)

	err := svc.BlacklistToken(ctx, "acc")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
}

// 2. Префикс "Bearer " срезается перед записью
func TestBlacklistToken_StripsBearerPrefix(t *testing.T) {
	svc, mockRepo, mockJWT := newTestBlacklistService()
	ctx := context.Background()

	expireAt := time.Now().Add(10 * time.Minute).UTC()

	mockRepo.On("Exists", ctx, "acc").Return(false, nil)
	mockJWT.On("ExpiryOf", "acc").Return(expireAt, nil)
	mockRepo.On("Insert", ctx, "acc", expireAt).Return(nil)

	err := svc.BlacklistToken(ctx, "Bearer acc")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// 3. Нечитаемый токен всё равно попадает в список, с запасным TTL
func TestBlacklistToken_MalformedTokenFallbackTTL(t *testing.T) {
	svc, mockRepo, mockJWT := newTestBlacklistService()
	ctx := context.Background()

	mockRepo.On("Exists", ctx, "garbage").Return(false, nil)
	mockJWT.On("ExpiryOf", "garbage").Return(time.Time{}, errors.New("повреждённый токен"))
	mockRepo.On("Insert", ctx, "garbage", mock.MatchedBy(func(expireAt time.Time) bool {
		expected := time.Now().UTC().Add(5 * time.Minute)
		return expireAt.After(expected.Add(-10*time.Second)) && expireAt.Before(expected.Add(10*time.Second))
	})).Return(nil)

	err := svc.BlacklistToken(ctx, "garbage")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
}

// 4. Повторный отзыв — no-op
func TestBlacklistToken_Idempotent(t *testing.T) {
	svc, mockRepo, _ := newTestBlacklistService()
	ctx := context.Background()

	mockRepo.On("Exists", ctx, "acc").Return(true, nil)

	err := svc.BlacklistToken(ctx, "acc")

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// 5. Пустая строка и голый "Bearer " пропускаются без обращения к хранилищу
func TestBlacklistToken_BlankTokenSkipped(t *testing.T) {
	svc, mockRepo, _ := newTestBlacklistService()
	ctx := context.Background()

	assert.NoError(t, svc.BlacklistToken(ctx, ""))
	assert.NoError(t, svc.BlacklistToken(ctx, "Bearer "))
	mockRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

// 6. Проверка по списку
func TestIsBlacklisted(t *testing.T) {
	svc, mockRepo, _ := newTestBlacklistService()
	ctx := context.Background()

	mockRepo.On("Exists", ctx, "revoked").Return(true, nil)
	mockRepo.On("Exists", ctx, "clean").Return(false, nil)

	assert.True(t, svc.IsBlacklisted(ctx, "revoked"))
	assert.False(t, svc.IsBlacklisted(ctx, "clean"))
	assert.False(t, svc.IsBlacklisted(ctx, ""))
}

// 7. Ошибка хранилища при проверке трактуется как "не в списке"
func TestIsBlacklisted_StorageErrorFailsOpen(t *testing.T) {
	svc, mockRepo, _ := newTestBlacklistService()
	ctx := context.Background()

	mockRepo.On("Exists", ctx, "acc").Return(false, errors.New("db error"))

	assert.False(t, svc.IsBlacklisted(ctx, "acc"))
	mockRepo.AssertExpectations(t)
}
