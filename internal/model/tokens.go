package model

import "time"

// RefreshToken : долгоживущая refresh-сессия пользователя.
// Token — непрозрачная случайная строка, по ней выполняется поиск в БД.
// После установки revoked = true флаг никогда не снимается.
type RefreshToken struct {
	UUID      string    `db:"uuid"`
	UserUUID  string    `db:"user_uuid"`
	Token     string    `db:"token"`
	Device    string    `db:"device"`
	IpAddress string    `db:"ip_address"`
	CreatedAt time.Time `db:"created_at"`
	ExpireAt  time.Time `db:"expire_at"`
	Revoked   bool      `db:"revoked"`
}

// BlacklistedToken : отозванный access-токен.
// Хранится до ExpireAt, затем удаляется периодической очисткой.
type BlacklistedToken struct {
	Token    string    `db:"token"`
	ExpireAt time.Time `db:"expire_at"`
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения новой пары)
	// example: vcSi0369y1I62wOpxZFpgZ...
	RefreshToken string `json:"refreshToken"`

	// UUID пользователя, которому выданы токены
	UserUUID string `json:"userUuid"`
}
