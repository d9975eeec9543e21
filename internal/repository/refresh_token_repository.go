package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"
)

type RefreshTokenRepository struct {
	*config.Database
}

func NewRefreshTokenRepository(database *config.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{database}
}

// SaveWithEviction сохраняет новую refresh-сессию в одной транзакции с
// проверкой лимита. Активные строки пользователя читаются под блокировкой
// FOR UPDATE, поэтому конкурирующие создания сессий одного пользователя
// сериализуются на уровне его строк и не мешают другим пользователям.
// При достижении лимита отзывается сессия с самым старым created_at
// (при равенстве — в порядке вставки).
func (r *RefreshTokenRepository) SaveWithEviction(ctx context.Context, refreshToken *model.RefreshToken, maxSessions int) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return util.LogError("не удалось начать транзакцию", err)
	}
	defer tx.Rollback()

	query := `SELECT uuid FROM refresh_tokens
				WHERE user_uuid = $1 AND revoked = FALSE
				ORDER BY created_at, uuid
				FOR UPDATE`

	var activeUUIDs []string
	if err := tx.SelectContext(ctx, &activeUUIDs, query, refreshToken.UserUUID); err != nil {
		return util.LogError("не удалось получить активные сессии пользователя", err)
	}

	if maxSessions > 0 && len(activeUUIDs) >= maxSessions {
		// вытесняется самая старая по времени создания, не LRU
		query = `UPDATE refresh_tokens SET revoked = TRUE WHERE uuid = $1`
		if _, err := tx.ExecContext(ctx, query, activeUUIDs[0]); err != nil {
			return util.LogError("не удалось вытеснить старую сессию", err)
		}
	}

	query = `INSERT INTO refresh_tokens (uuid, user_uuid, token, device, ip_address, created_at, expire_at, revoked)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.ExecContext(ctx, query,
		refreshToken.UUID,
		refreshToken.UserUUID,
		refreshToken.Token,
		refreshToken.Device,
		refreshToken.IpAddress,
		refreshToken.CreatedAt,
		refreshToken.ExpireAt,
		refreshToken.Revoked,
	)
	if err != nil {
		return util.LogError("ошибка вставки refresh токена в БД", err)
	}

	if err := tx.Commit(); err != nil {
		return util.LogError("не удалось зафиксировать транзакцию", err)
	}

	return nil
}

// FindByToken ищет сессию по точному тексту токена, включая уже отозванные
// строки: отозванная строка нужна вызывающему для детекции повторного
// использования.
func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	query := `SELECT uuid, user_uuid, token, device, ip_address, created_at, expire_at, revoked
				FROM refresh_tokens WHERE token = $1`

	refreshToken := &model.RefreshToken{}
	err := r.DB.GetContext(ctx, refreshToken, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTokenNotFound
		}
		return nil, util.LogError("ошибка при поиске refresh токена", err)
	}

	return refreshToken, nil
}

// RevokeByUUID : условный отзыв "revoked = TRUE, если ещё не отозван".
// Из двух конкурирующих вызовов ровно один получит true — это единственная
// точка, через которую ротация становится линеаризуемой по токену.
func (r *RefreshTokenRepository) RevokeByUUID(ctx context.Context, uuid string) (bool, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE uuid = $1 AND revoked = FALSE`

	result, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return false, util.LogError("не удалось отозвать refresh токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("не удалось проверить, отозван ли токен", err)
	}

	return rowsAffected > 0, nil
}

// RevokeByToken отзывает сессию по тексту токена. Отсутствие строки не
// ошибка: logout обязан быть идемпотентным.
func (r *RefreshTokenRepository) RevokeByToken(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`

	if _, err := r.DB.ExecContext(ctx, query, token); err != nil {
		return util.LogError("не удалось отозвать refresh токен", err)
	}

	return nil
}

// DeleteAllByUser удаляет все сессии пользователя одним оператором.
// Используется только путём детекции повторного использования токена.
func (r *RefreshTokenRepository) DeleteAllByUser(ctx context.Context, userUUID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_uuid = $1`

	result, err := r.DB.ExecContext(ctx, query, userUUID)
	if err != nil {
		return util.LogError("не удалось удалить сессии пользователя", err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected > 0 {
		log.Printf("удалено %d сессий пользователя %s", rowsAffected, userUUID)
	}

	return nil
}
