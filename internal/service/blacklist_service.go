package service

import (
	"context"
	"log"
	"strings"
	"time"

	"course-share-server/config"
	"course-share-server/internal/ports"
	"course-share-server/internal/util"
)

// defaultFallbackTTL применяется к записи чёрного списка, когда из токена
// нельзя прочитать exp, а fallback_ttl в конфигурации не задан
const defaultFallbackTTL = 5 * time.Minute

const defaultSweepInterval = time.Hour

// BlacklistService ведёт чёрный список отозванных access-токенов.
// Отзыв не может провалиться из-за битого токена: намерение вызывающего
// всегда "перестать доверять этой строке".
type BlacklistService struct {
	repository ports.BlacklistRepositoryInterface
	jwtService ports.JWTServiceInterface
	cfg        *config.BlacklistConfig
	now        func() time.Time
}

func NewBlacklistService(repository ports.BlacklistRepositoryInterface, jwtService ports.JWTServiceInterface, cfg *config.BlacklistConfig) *BlacklistService {
	return &BlacklistService{
		repository: repository,
		jwtService: jwtService,
		cfg:        cfg,
		now:        time.Now,
	}
}

// BlacklistToken добавляет access-токен в чёрный список. Пустая строка и уже
// отозванный токен — no-op, повторные вызовы идемпотентны. TTL записи равен
// собственному exp токена, для нечитаемого токена берётся консервативный
// запасной TTL.
func (s *BlacklistService) BlacklistToken(ctx context.Context, token string) error {
	token = normalizeBearer(token)
	if token == "" {
		return nil
	}

	exists, err := s.repository.Exists(ctx, token)
	if err != nil {
		return util.LogError("ошибка проверки чёрного списка", err)
	}
	if exists {
		return nil
	}

	expireAt, err := s.jwtService.ExpiryOf(token)
	if err != nil {
		log.Printf("не удалось прочитать exp отзываемого токена, используется запасной TTL: %v", err)
		expireAt = s.now().UTC().Add(s.fallbackTTL())
	}

	if err := s.repository.Insert(ctx, token, expireAt); err != nil {
		return util.LogError("не удалось добавить токен в чёрный список", err)
	}

	return nil
}

// IsBlacklisted проверяет токен по чёрному списку. Для пустой строки всегда
// false. Ошибка хранилища логируется и трактуется как "не в списке":
// следом токен всё равно проходит проверку подписи и срока жизни.
func (s *BlacklistService) IsBlacklisted(ctx context.Context, token string) bool {
	token = normalizeBearer(token)
	if token == "" {
		return false
	}

	exists, err := s.repository.Exists(ctx, token)
	if err != nil {
		log.Printf("ошибка проверки чёрного списка: %v", err)
		return false
	}

	return exists
}

// StartSweeper запускает периодическую очистку просроченных записей.
// Работает до отмены контекста, каждый проход — собственная короткая
// транзакция, фоновые запуски не блокируют обработку запросов.
func (s *BlacklistService) StartSweeper(ctx context.Context) {
	interval := defaultSweepInterval
	if s.cfg.SweepInterval != "" {
		parsed, err := time.ParseDuration(s.cfg.SweepInterval)
		if err != nil {
			log.Printf("некорректный sweep_interval %q, используется %v: %v", s.cfg.SweepInterval, defaultSweepInterval, err)
		} else {
			interval = parsed
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("очистка чёрного списка остановлена")
				return
			case <-ticker.C:
				deleted, err := s.repository.DeleteExpired(ctx, s.now().UTC())
				if err != nil {
					log.Printf("ошибка очистки чёрного списка: %v", err)
					continue
				}
				if deleted > 0 {
					log.Printf("из чёрного списка удалено %d просроченных записей", deleted)
				}
			}
		}
	}()
}

func (s *BlacklistService) fallbackTTL() time.Duration {
	if s.cfg.FallbackTTL == "" {
		return defaultFallbackTTL
	}
	ttl, err := time.ParseDuration(s.cfg.FallbackTTL)
	if err != nil {
		log.Printf("некорректный fallback_ttl %q, используется %v: %v", s.cfg.FallbackTTL, defaultFallbackTTL, err)
		return defaultFallbackTTL
	}
	return ttl
}

func normalizeBearer(token string) string {
	token = strings.TrimSpace(token)
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
