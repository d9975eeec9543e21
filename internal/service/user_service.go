package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"course-share-server/internal/model"
	"course-share-server/internal/ports"
	"course-share-server/internal/security"

	"github.com/google/uuid"
)

type UserService struct {
	userRepository ports.UserRepository
	notifier       ports.EmailNotifier
}

func NewUserService(userRepository ports.UserRepository, notifier ports.EmailNotifier) *UserService {
	return &UserService{
		userRepository: userRepository,
		notifier:       notifier,
	}
}

// Register создаёт пользователя и асинхронно отправляет приветственное
// письмо. Ошибка доставки письма регистрацию не роняет.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 4 {
		return nil, fmt.Errorf("[UserService] имя пользователя должно быть не меньше 4 символов")
	}
	for _, c := range username {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return nil, fmt.Errorf("[UserService] имя пользователя должно содержать только латинские буквы и цифры")
		}
	}

	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("[UserService] некорректный email")
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[UserService] %w", err)
	}

	exists, err := s.userRepository.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка проверки имени пользователя: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("[UserService] имя пользователя уже занято")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка создания пользователя: %w", err)
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.SendWelcome(sendCtx, created.Email, created.Username); err != nil {
			log.Printf("[UserService] ошибка отправки приветственного письма: %v", err)
		}
	}()

	return created, nil
}

func (s *UserService) GetProfile(ctx context.Context, userUUID string) (*model.User, error) {
	return s.userRepository.FindByUUID(ctx, userUUID)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount int
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 || digitCount == 0 {
		return fmt.Errorf("пароль должен содержать заглавные и строчные буквы и цифры")
	}

	return nil
}
