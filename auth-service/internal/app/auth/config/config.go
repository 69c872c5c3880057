package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"shopkart/auth-service/internal/app/auth/entity"
)

// Config содержит все настройки приложения
type Config struct {
	Server         ServerConfig
	MongoDB        MongoDBConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	JWT            JWTConfig
	Catalog        CatalogConfig
	RateLimit      RateLimitConfig
	CORS           CORSConfig
	FrontendURL    string
	RecentlyViewed entity.EvictionPolicy
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// MongoDBConfig - коллекция users
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - refresh токены и черный список access токенов
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - события пользователей (регистрация, восстановление пароля)
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig - настройки для JWT токенов
type JWTConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// CatalogConfig - catalog-service, откуда берутся снимки товаров
type CatalogConfig struct {
	URL string
}

// RateLimitConfig - лимит на вход и запрос сброса пароля с одного IP
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию из dotenv файла (если он есть) и переменных окружения
func Load() (*Config, error) {
	_ = godotenv.Load(getEnv("ENV_FILE", "./data/config.env"))

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_DURATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_DURATION: %w", err)
	}

	refreshDuration, err := time.ParseDuration(getEnv("JWT_REFRESH_DURATION", "168h")) // 7 дней
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_DURATION: %w", err)
	}

	policy, err := entity.ParseEvictionPolicy(os.Getenv("RECENTLY_VIEWED_EVICTION"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECENTLY_VIEWED_EVICTION: %w", err)
	}

	perMinute := getEnvInt("LOGIN_RATE_PER_MIN", 20)
	if perMinute <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MIN: must be positive")
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "shopkart"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "user_events"),
		},
		JWT: JWTConfig{
			SecretKey:            getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			AccessTokenDuration:  accessDuration,
			RefreshTokenDuration: refreshDuration,
		},
		Catalog: CatalogConfig{
			URL: getEnv("CATALOG_URL", "http://localhost:8081"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: perMinute,
			Burst:     getEnvInt("LOGIN_RATE_BURST", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(),
		},
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		RecentlyViewed: policy,
	}, nil
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func allowedOrigins() []string {
	origins := []string{getEnv("FRONTEND_URI_1", "http://localhost:3000")}
	if second := os.Getenv("FRONTEND_URI_2"); second != "" {
		origins = append(origins, second)
	}
	return origins
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
