package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения Catalog Service
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// MongoDBConfig - коллекция products вместе со встроенными отзывами
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - кеш карточек товаров
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - события товаров и отзывов
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // PRODUCT_* и REVIEW_* события
}

type JWTConfig struct {
	Secret string // Должен совпадать с Auth Service
}

// CloudinaryConfig - учетные данные медиа-хранилища изображений товаров
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию из dotenv файла (если он есть) и переменных окружения
func Load() (*Config, error) {
	// Отсутствие файла не ошибка: в контейнере переменные приходят из окружения
	_ = godotenv.Load(getEnv("ENV_FILE", "./data/config.env"))

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "shopkart"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func allowedOrigins() []string {
	origins := []string{getEnv("FRONTEND_URI_1", "http://localhost:3000")}
	if second := os.Getenv("FRONTEND_URI_2"); second != "" {
		origins = append(origins, second)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
