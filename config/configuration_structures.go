package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
	Issuer         string `yaml:"issuer"`
}

// AuthConfig : параметры refresh-сессий
type AuthConfig struct {
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	// MaxSessions ограничивает количество одновременно активных refresh-сессий пользователя
	MaxSessions int `yaml:"max_sessions"`
}

// BlacklistConfig : параметры чёрного списка access-токенов
type BlacklistConfig struct {
	// FallbackTTL используется, когда у отзываемого токена нельзя прочитать exp
	FallbackTTL   string `yaml:"fallback_ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type TTL struct {
	S3AndRedis int `yaml:"s3_and_redis"`
}
