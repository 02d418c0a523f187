package app

import (
	"time"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/pkg/envutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	Insight insight.Config
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		Insight:        insight.LoadConfig(log),
	}
}
