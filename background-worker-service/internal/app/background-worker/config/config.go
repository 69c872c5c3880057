package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки Background Worker Service
type Config struct {
	MongoDB      MongoDBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
	HTTP         HTTPConfig
}

// MongoDBConfig - коллекция products catalog-service
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - тот же Redis, где catalog-service кеширует карточки товаров
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	ClaimTTL time.Duration // Срок хранения отметок о списанных позициях
}

// KafkaConfig - подписка на order_events
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик событий заказов
	GroupID  string   // ID группы потребителей
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

type CronScheduleConfig struct {
	RatingReconcile string // Расписание пересчета рейтингов (синтаксис robfig/cron, например "@every 1h")
}

// HTTPConfig - healthcheck и метрики
type HTTPConfig struct {
	Address string
}

func Load() (*Config, error) {
	_ = godotenv.Load(getEnv("ENV_FILE", "./data/config.env"))

	return &Config{
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "shopkart"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			ClaimTTL: time.Duration(getEnvInt("STOCK_CLAIM_TTL_HOURS", 7*24)) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "order_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "background-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		CronSchedule: CronScheduleConfig{
			RatingReconcile: getEnv("RATING_RECONCILE_SCHEDULE", "@every 1h"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HEALTH_ADDR", ":8080"),
		},
	}, nil
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
