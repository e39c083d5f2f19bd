package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	DBDriver         string
	DatabaseDSN      string
	DBConnectRetries int
	ResetDB          bool
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	LoginRateLimit   string
	LogLevel         string
	LogJSON          bool
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/audit?charset=utf8mb4&parseTime=True&loc=Local"),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
		ResetDB:          getEnvBool("RESET_DB", false),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL:  time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		LoginRateLimit:   getEnv("LOGIN_RATE_LIMIT", "10-M"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogJSON:          getEnvBool("LOG_JSON", false),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
