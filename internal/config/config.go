package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort         = "8080"
	defaultDBName       = "ecofood"
	defaultEventsQueue  = "products.events"
	defaultPageSize     = 5
	defaultMaxPageSize  = 50
	defaultLoginAttempt = 5
)

type Config struct {
	Env  string
	Port string

	MongoURI string
	DBName   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerificationTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL        string
	ProductEventsQueue string

	LoginMaxAttempts int
	LoginWindow      time.Duration

	DefaultPageSize int
	MaxPageSize     int

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads the process environment, after merging a .env file when one
// is present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	cfg := Config{
		Env:                getEnvOrDefault("APP_ENV", "development"),
		Port:               getEnvOrDefault("PORT", defaultPort),
		MongoURI:           getEnvOrDefault("MONGO_URI", ""),
		DBName:             getEnvOrDefault("DB_NAME", defaultDBName),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		VerificationTTL:    getDurationEnv("VERIFICATION_TTL", 24, time.Hour),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		RabbitMQURL:        getEnvOrDefault("RABBITMQ_URL", ""),
		ProductEventsQueue: getEnvOrDefault("PRODUCT_EVENTS_QUEUE", defaultEventsQueue),
		LoginMaxAttempts:   getIntEnv("LOGIN_MAX_ATTEMPTS", defaultLoginAttempt),
		LoginWindow:        getDurationEnv("LOGIN_WINDOW", 1, time.Minute),
		DefaultPageSize:    getIntEnv("DEFAULT_PAGE_SIZE", defaultPageSize),
		MaxPageSize:        getIntEnv("MAX_PAGE_SIZE", defaultMaxPageSize),
		SeedAdminEmail:     getEnvOrDefault("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnvOrDefault("SEED_ADMIN_PASSWORD", ""),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
