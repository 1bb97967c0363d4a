package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the config as a gorm/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DB             DatabaseConfig
	JWTSecret      string
	KafkaBrokers   []string
	RedisAddr      string
	ReviewCacheTTL time.Duration
}

// Load reads configuration from BOOKING_-prefixed environment variables
// with development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8083")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "servilink_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REVIEW_CACHE_TTL", "5m")

	if !v.IsSet("JWT_SECRET") && v.GetString("APP_ENV") != "development" {
		return nil, fmt.Errorf("BOOKING_JWT_SECRET is required outside development")
	}
	v.SetDefault("JWT_SECRET", "dev-only-secret")

	ttl, err := time.ParseDuration(v.GetString("REVIEW_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REVIEW_CACHE_TTL: %w", err)
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTSecret:      v.GetString("JWT_SECRET"),
		KafkaBrokers:   strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		ReviewCacheTTL: ttl,
	}, nil
}
