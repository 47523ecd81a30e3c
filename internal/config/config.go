package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Notification Gateway Config (внешний SMS/push шлюз)
	GatewayURL        string        `env:"GATEWAY_URL"`
	GatewaySecret     string        `env:"GATEWAY_SECRET"`
	GatewayTimeout    time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"5s"`
	GatewayMaxRetries int           `env:"GATEWAY_MAX_RETRIES" envDefault:"3"`
	GatewayBaseDelay  time.Duration `env:"GATEWAY_BASE_DELAY" envDefault:"1s"`

	// Auth Config
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"1440"`

	// Допустимый дискретный набор значений ETA в минутах
	EtaOptions []int `env:"ETA_OPTIONS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		GatewayURL:             os.Getenv("GATEWAY_URL"),
		GatewaySecret:          os.Getenv("GATEWAY_SECRET"),
		GatewayTimeout:         getEnvAsDuration("GATEWAY_TIMEOUT", 5*time.Second),
		GatewayMaxRetries:      getEnvAsInt("GATEWAY_MAX_RETRIES", 3),
		GatewayBaseDelay:       getEnvAsDuration("GATEWAY_BASE_DELAY", time.Second),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTTTL:                 getEnvAsDuration("JWT_TTL", 24*time.Hour),
		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 1440),
		EtaOptions:             getEnvAsIntSlice("ETA_OPTIONS", []int{5, 10, 15, 20, 30, 45, 60}),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// EtaAllowed проверяет, входит ли значение ETA в допустимый набор
func (c *Config) EtaAllowed(minutes int) bool {
	for _, option := range c.EtaOptions {
		if option == minutes {
			return true
		}
	}
	return false
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsIntSlice разбирает список чисел через запятую
func getEnvAsIntSlice(key string, defaultValue []int) []int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		intValue, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		result = append(result, intValue)
	}
	return result
}
