package service

import (
	"context"
	"log"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/ports"
	"course-share-server/internal/security"
	"course-share-server/internal/util"

	"github.com/google/uuid"
)

// RefreshTokenService управляет жизненным циклом refresh-сессий: создание с
// вытеснением по лимиту, валидация с детекцией повторного использования и
// атомарная ротация.
type RefreshTokenService struct {
	repository ports.RefreshTokenRepositoryInterface
	cfg        *config.AuthConfig
	now        func() time.Time
}

func NewRefreshTokenService(repository ports.RefreshTokenRepositoryInterface, cfg *config.AuthConfig) *RefreshTokenService {
	return &RefreshTokenService{
		repository: repository,
		cfg:        cfg,
		now:        time.Now,
	}
}

// NewRefreshTokenServiceWithClock : конструктор с подменяемыми часами для тестов
func NewRefreshTokenServiceWithClock(repository ports.RefreshTokenRepositoryInterface, cfg *config.AuthConfig, now func() time.Time) *RefreshTokenService {
	return &RefreshTokenService{
		repository: repository,
		cfg:        cfg,
		now:        now,
	}
}

// Create выпускает новую refresh-сессию пользователя. Если пользователь уже
// держит максимум активных сессий, хранилище сначала отзывает самую старую.
func (s *RefreshTokenService) Create(ctx context.Context, userUUID, device, ipAddress string) (*model.RefreshToken, error) {
	tokenStr, err := security.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка парсинга refresh_token_ttl", err)
	}

	now := s.now().UTC()
	refreshToken := &model.RefreshToken{
		UUID:      uuid.New().String(),
		UserUUID:  userUUID,
		Token:     tokenStr,
		Device:    device,
		IpAddress: ipAddress,
		CreatedAt: now,
		ExpireAt:  now.Add(ttl),
		Revoked:   false,
	}

	if err := s.repository.SaveWithEviction(ctx, refreshToken, s.cfg.MaxSessions); err != nil {
		return nil, util.LogError("ошибка сохранения refresh токена", err)
	}

	return refreshToken, nil
}

// Validate проверяет предъявленный refresh-токен.
// Отозванная строка — сигнал кражи: токен уже был ротирован или отозван, а
// клиент предъявил его снова. В этом случае удаляются ВСЕ сессии владельца
// токена, одним скомпрометированным токеном гасится весь аккаунт.
// Просроченная сессия помечается отозванной при обнаружении.
func (s *RefreshTokenService) Validate(ctx context.Context, token string) (*model.RefreshToken, error) {
	refreshToken, err := s.repository.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if refreshToken.Revoked {
		// логируется отдельно от обычного протухания: это активное событие безопасности
		log.Printf("REUSE DETECTED: повторное предъявление отозванного refresh токена, отзываются все сессии пользователя %s", refreshToken.UserUUID)
		if err := s.repository.DeleteAllByUser(ctx, refreshToken.UserUUID); err != nil {
			return nil, util.LogError("не удалось отозвать сессии пользователя", err)
		}
		return nil, model.ErrReuseDetected
	}

	if s.now().UTC().After(refreshToken.ExpireAt) {
		if _, err := s.repository.RevokeByUUID(ctx, refreshToken.UUID); err != nil {
			log.Printf("не удалось пометить просроченный токен отозванным: %v", err)
		}
		return nil, model.ErrTokenExpired
	}

	return refreshToken, nil
}

// Rotate атомарно отзывает старую сессию и создаёт преемника для того же
// владельца/устройства. Отзыв условный: из двух одновременных ротаций одного
// токена выигрывает ровно одна, проигравшая трактуется как replay со всеми
// последствиями детекции повторного использования.
func (s *RefreshTokenService) Rotate(ctx context.Context, session *model.RefreshToken) (*model.RefreshToken, error) {
	revoked, err := s.repository.RevokeByUUID(ctx, session.UUID)
	if err != nil {
		return nil, util.LogError("не удалось отозвать сессию при ротации", err)
	}
	if !revoked {
		log.Printf("REUSE DETECTED: проиграна гонка ротации токена, отзываются все сессии пользователя %s", session.UserUUID)
		if err := s.repository.DeleteAllByUser(ctx, session.UserUUID); err != nil {
			return nil, util.LogError("не удалось отозвать сессии пользователя", err)
		}
		return nil, model.ErrReuseDetected
	}

	return s.Create(ctx, session.UserUUID, session.Device, session.IpAddress)
}

// RevokeByToken отзывает сессию по тексту токена. Используется logout,
// отсутствие или повторный отзыв токена ошибкой не считается.
func (s *RefreshTokenService) RevokeByToken(ctx context.Context, token string) error {
	return s.repository.RevokeByToken(ctx, token)
}
