package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config конфигурация приложения
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Telegram TelegramConfig `toml:"telegram"`
	Booking  BookingConfig  `toml:"booking"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	// APIToken bearer-токен для /api/v1; пустое значение отключает проверку
	APIToken string `toml:"api_token"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к базе данных
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// TelegramConfig настройки Telegram бота
type TelegramConfig struct {
	Token       string `toml:"token"`
	AdminChatID int64  `toml:"admin_chat_id"`
}

// BookingConfig настройки движка записи
type BookingConfig struct {
	// Timezone таймзона салона, например "Europe/Moscow"
	Timezone string `toml:"timezone"`
	// MaintenanceInterval интервал обслуживающего прохода в секундах
	MaintenanceInterval int `toml:"maintenance_interval"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// envOverrides секреты, которые можно передать через окружение
// вместо config.toml
type envOverrides struct {
	BotToken    string `envconfig:"BOT_TOKEN"`
	AdminChatID int64  `envconfig:"ADMIN_CHAT_ID"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	APIToken    string `envconfig:"API_TOKEN"`
}

// Load читает конфигурацию из TOML файла и накладывает
// переменные окружения поверх
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("config: failed to read environment: %w", err)
	}

	if env.BotToken != "" {
		cfg.Telegram.Token = env.BotToken
	}
	if env.AdminChatID != 0 {
		cfg.Telegram.AdminChatID = env.AdminChatID
	}
	if env.DBPassword != "" {
		cfg.Database.Password = env.DBPassword
	}
	if env.APIToken != "" {
		cfg.Server.APIToken = env.APIToken
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: telegram token is required (config.toml or BOT_TOKEN)")
	}
	if c.Telegram.AdminChatID == 0 {
		return fmt.Errorf("config: admin chat id is required (config.toml or ADMIN_CHAT_ID)")
	}
	if c.Booking.Timezone == "" {
		return fmt.Errorf("config: booking timezone is required")
	}
	if c.Booking.MaintenanceInterval <= 0 {
		return fmt.Errorf("config: maintenance interval must be positive")
	}
	return nil
}
