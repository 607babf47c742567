package config

import (
	config "github.com/avvvet/charge-services/configs"
)

type Config struct {
	MongoURI  string
	Port      string
	RateLimit int // requests per minute per IP
	JWTSecret string
}

func Load() Config {
	return Config{
		MongoURI:  config.Getenv("MONGODB_URI", "mongodb://localhost:27017/prueba_tecnica_cobros"),
		Port:      config.Getenv("CHARGE_SERVICE_PORT", "8000"),
		RateLimit: config.GetenvInt("RATE_LIMIT", 100),
		JWTSecret: config.Getenv("JWT_SECRET_KEY", ""),
	}
}
