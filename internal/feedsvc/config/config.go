package config

import (
	config "github.com/avvvet/charge-services/configs"
)

type Config struct {
	Port      string
	RateLimit int
	JWTSecret string
}

func Load() Config {
	return Config{
		Port:      config.Getenv("FEED_SERVICE_PORT", "8002"),
		RateLimit: config.GetenvInt("RATE_LIMIT", 100),
		JWTSecret: config.Getenv("JWT_SECRET_KEY", ""),
	}
}
