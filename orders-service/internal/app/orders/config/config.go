package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Razorpay RazorpayConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8082)
}

type DatabaseConfig struct {
	Host        string // Хост PostgreSQL
	Port        string // Порт PostgreSQL
	User        string // Имя пользователя БД
	Password    string // Пароль БД
	DBName      string // Имя базы данных
	SSLMode     string // Режим SSL (disable/require/verify-full)
	AutoMigrate bool   // Создать таблицы orders, order_items, payments при старте
	MaxRetries  int    // Попыток подключения при старте
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // ORDER_CREATED, ORDER_STATUS_UPDATED
}

type JWTConfig struct {
	Secret string // Должен совпадать с Auth Service
}

// RazorpayConfig учетные данные платежного шлюза
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load(getEnv("ENV_FILE", "./data/config.env"))

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "orders_service"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: autoMigrate,
			MaxRetries:  max(getEnvInt("DB_CONNECT_RETRIES", 10), 1),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "order_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_API_KEY", ""),
			KeySecret: getEnv("RAZORPAY_API_SECRET", ""),
			BaseURL:   getEnv("RAZORPAY_API_URL", "https://api.razorpay.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(),
		},
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

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
