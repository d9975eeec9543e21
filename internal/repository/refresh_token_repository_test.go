package repository_test

import (
	"context"
	"testing"
	"time"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRefreshRepo(t *testing.T) (*repository.RefreshTokenRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewRefreshTokenRepository(&config.Database{DB: sqlxDB}), mock
}

func testRefreshToken() *model.RefreshToken {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.RefreshToken{
		UUID:      "r4",
		UserUUID:  "u1",
		Token:     "opaque",
		Device:    "agent",
		IpAddress: "127.0.0.1",
		CreatedAt: now,
		ExpireAt:  now.Add(48 * time.Hour),
	}
}

// 1. Пользователь ниже лимита: вставка без вытеснения
func TestSaveWithEviction_BelowLimit(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)
	token := testRefreshToken()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT uuid FROM refresh_tokens`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("r1").AddRow("r2"))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(token.UUID, token.UserUUID, token.Token, token.Device, token.IpAddress, token.CreatedAt, token.ExpireAt, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveWithEviction(context.Background(), token, 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 2. Лимит достигнут: отзывается самая старая активная сессия,
// затем вставляется новая
func TestSaveWithEviction_EvictsOldest(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)
	token := testRefreshToken()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT uuid FROM refresh_tokens`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("r1").AddRow("r2").AddRow("r3"))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE WHERE uuid = \$1`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(token.UUID, token.UserUUID, token.Token, token.Device, token.IpAddress, token.CreatedAt, token.ExpireAt, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveWithEviction(context.Background(), token, 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 3. Условный отзыв: затронута строка — гонка выиграна
func TestRevokeByUUID_WinsRace(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE WHERE uuid = \$1 AND revoked = FALSE`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	revoked, err := repo.RevokeByUUID(context.Background(), "r1")

	assert.NoError(t, err)
	assert.True(t, revoked)
}

// 4. Условный отзыв: строк не затронуто — токен уже отозван кем-то другим
func TestRevokeByUUID_LosesRace(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE WHERE uuid = \$1 AND revoked = FALSE`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	revoked, err := repo.RevokeByUUID(context.Background(), "r1")

	assert.NoError(t, err)
	assert.False(t, revoked)
}

// 5. Поиск по тексту токена возвращает и отозванные строки
func TestFindByToken_ReturnsRevokedRow(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"uuid", "user_uuid", "token", "device", "ip_address", "created_at", "expire_at", "revoked"}).
		AddRow("r1", "u1", "opaque", "agent", "127.0.0.1", now, now.Add(time.Hour), true)

	mock.ExpectQuery(`SELECT uuid, user_uuid, token, device, ip_address, created_at, expire_at, revoked`).
		WithArgs("opaque").
		WillReturnRows(rows)

	token, err := repo.FindByToken(context.Background(), "opaque")

	assert.NoError(t, err)
	assert.True(t, token.Revoked)
}

// 6. Неизвестный токен
func TestFindByToken_NotFound(t *testing.T) {
	repo, mock := newMockRefreshRepo(t)

	mock.ExpectQuery(`SELECT uuid, user_uuid, token`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}))

	_, err := repo.FindByToken(context.Background(), "ghost")

	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}
