package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Queue     QueueConfig     `toml:"queue"`
	Mailer    MailerConfig    `toml:"mailer"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// BookingConfig таймауты транзакций бронирования (в секундах)
type BookingConfig struct {
	AcquireTimeout      int `toml:"acquire_timeout" validate:"min=1"`
	ExecTimeout         int `toml:"exec_timeout" validate:"min=1"`
	SerializableRetries int `toml:"serializable_retries" validate:"min=1,max=10"`
}

// AcquireTimeoutDuration таймаут ожидания начала транзакции
func (b BookingConfig) AcquireTimeoutDuration() time.Duration {
	return time.Duration(b.AcquireTimeout) * time.Second
}

// ExecTimeoutDuration таймаут выполнения транзакции
func (b BookingConfig) ExecTimeoutDuration() time.Duration {
	return time.Duration(b.ExecTimeout) * time.Second
}

// RateLimitConfig ограничение частоты создания бронирований с одного IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"required_if=Enabled true,gte=0"`
	Burst             int     `toml:"burst" validate:"required_if=Enabled true,gte=0"`
}

// QueueConfig очередь уведомлений (asynq поверх redis)
// Если выключена, письма отправляются напрямую из API
type QueueConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr" validate:"required_if=Enabled true"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"min=0"`
	Concurrency   int    `toml:"concurrency" validate:"min=1"`
	MaxRetry      int    `toml:"max_retry" validate:"min=0"`
}

// MailerConfig клиент сервиса отправки писем
type MailerConfig struct {
	URL     string `toml:"url" validate:"required,url"`
	APIKey  string `toml:"api_key"`
	From    string `toml:"from" validate:"required,email"`
	Timeout int    `toml:"timeout" validate:"min=1"`
}

var validate = validator.New()

// Load читает конфигурацию из TOML файла, проставляет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию по тегам validate
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Default значения по умолчанию, перекрываются файлом
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "repair_service",
		},
		Booking: BookingConfig{
			AcquireTimeout:      10,
			ExecTimeout:         15,
			SerializableRetries: 3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Queue: QueueConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 5,
			MaxRetry:    5,
		},
		Mailer: MailerConfig{
			Timeout: 5,
		},
	}
}
