package service

import (
	"context"
	"log"

	"course-share-server/internal/model"
	"course-share-server/internal/ports"
	"course-share-server/internal/security"
	"course-share-server/internal/util"
)

// AuthenticationService оркестрирует вход, обновление пары токенов и выход,
// связывая кодек access-токенов, хранилище refresh-сессий и чёрный список.
type AuthenticationService struct {
	userRepository   ports.UserRepository
	jwtService       ports.JWTServiceInterface
	refreshService   ports.RefreshTokenServiceInterface
	blacklistService ports.BlacklistServiceInterface
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	refreshService ports.RefreshTokenServiceInterface,
	blacklistService ports.BlacklistServiceInterface,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository:   userRepository,
		jwtService:       jwtService,
		refreshService:   refreshService,
		blacklistService: blacklistService,
	}
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
// "Пользователь не найден" и "неверный пароль" снаружи неразличимы: оба
// случая возвращают один и тот же model.ErrInvalidCredentials.
func (s *AuthenticationService) Login(ctx context.Context, username, password, device, ipAddress string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		log.Printf("вход отклонён для %q: %v", username, err)
		return nil, model.ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		log.Printf("вход отклонён для %q: пароль не совпал", username)
		return nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.UUID)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	session, err := s.refreshService.Create(ctx, user.UUID, device, ipAddress)
	if err != nil {
		return nil, util.LogError("ошибка создания refresh сессии", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: session.Token,
		UserUUID:     user.UUID,
	}, nil
}

// Refresh валидирует предъявленный refresh-токен, атомарно ротирует сессию и
// выпускает новый access-токен для того же пользователя. Ошибки валидации
// уходят вызывающему без изменений.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	session, err := s.refreshService.Validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	newSession, err := s.refreshService.Rotate(ctx, session)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(session.UserUUID)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: newSession.Token,
		UserUUID:     session.UserUUID,
	}, nil
}

// Logout отзывает каждый из непустых предъявленных токенов по принципу best
// effort. Операция тотальна и идемпотентна: невалидные, чужие или уже
// отозванные токены её не роняют. Принадлежность access и refresh токенов
// одной сессии намеренно не сверяется.
func (s *AuthenticationService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if err := s.blacklistService.BlacklistToken(ctx, accessToken); err != nil {
			log.Printf("logout: не удалось отозвать access токен: %v", err)
		}
	}

	if refreshToken != "" {
		if err := s.refreshService.RevokeByToken(ctx, refreshToken); err != nil {
			log.Printf("logout: не удалось отозвать refresh токен: %v", err)
		}
	}

	return nil
}
