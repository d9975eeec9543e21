package repository

import (
	"context"
	"time"

	"course-share-server/config"
	"course-share-server/internal/util"
)

type BlacklistRepository struct {
	*config.Database
}

func NewBlacklistRepository(database *config.Database) *BlacklistRepository {
	return &BlacklistRepository{database}
}

// Insert добавляет токен в чёрный список. Повторная вставка того же токена
// гасится на уровне БД: гонка двух logout одного токена разрешается без
// блокировок.
func (r *BlacklistRepository) Insert(ctx context.Context, token string, expireAt time.Time) error {
	query := `INSERT INTO blacklisted_tokens (token, expire_at)
				VALUES ($1, $2)
				ON CONFLICT (token) DO NOTHING`

	if _, err := r.DB.ExecContext(ctx, query, token, expireAt); err != nil {
		return util.LogError("ошибка вставки токена в чёрный список", err)
	}

	return nil
}

func (r *BlacklistRepository) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token = $1)`

	if err := r.DB.GetContext(ctx, &exists, query, token); err != nil {
		return false, util.LogError("ошибка проверки токена в чёрном списке", err)
	}

	return exists, nil
}

// DeleteExpired удаляет записи с истёкшим сроком. Запускается периодической
// очисткой в собственной короткой транзакции: пропущенный запуск лишь
// откладывает освобождение места, на корректность проверки Exists он не влияет.
func (r *BlacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM blacklisted_tokens WHERE expire_at < $1`

	result, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, util.LogError("ошибка очистки чёрного списка", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("не удалось получить число удалённых записей", err)
	}

	return rowsAffected, nil
}
