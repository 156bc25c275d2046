package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Переменные окружения, которые перекрывают секреты из файла
const (
	EnvDBPassword  = "DB_PASSWORD"
	EnvMailAPIKey  = "MAIL_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Business BusinessConfig `toml:"business"`
	Mail     MailConfig     `toml:"mail"`
	Tasks    TasksConfig    `toml:"tasks"`
	Identity IdentityConfig `toml:"identity"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	URL             string `toml:"url"` // если задан, остальные поля подключения игнорируются
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BusinessConfig struct {
	Timezone string `toml:"timezone"`
	ShopName string `toml:"shop_name"`
}

type MailConfig struct {
	BaseURL       string  `toml:"base_url"`
	APIKey        string  `toml:"api_key"`
	From          string  `toml:"from"`
	Timeout       int     `toml:"timeout"` // секунды
	RatePerSecond float64 `toml:"rate_per_second"`
}

// Enabled отправка писем настроена
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.From != ""
}

type TasksConfig struct {
	PollInterval      int `toml:"poll_interval"` // секунды
	BatchSize         int `toml:"batch_size"`
	MaxAttempts       int `toml:"max_attempts"`
	Backoff           int `toml:"backoff"`            // секунды, умножается на номер попытки
	Lease             int `toml:"lease"`              // секунды
	RetentionInterval int `toml:"retention_interval"` // секунды
}

type IdentityConfig struct {
	LinkBatch    int `toml:"link_batch"`
	LinkBatchMax int `toml:"link_batch_max"`
}

// Load читает .env (если есть), затем TOML файл, затем перекрывает секреты из окружения
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvMailAPIKey); v != "" {
		c.Mail.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefaultString(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 10)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefaultString(&c.Logs.Level, "info")
	setDefaultString(&c.Metrics.Path, "/metrics")
	setDefaultString(&c.Metrics.ServiceName, "barbershop_booking")

	setDefaultString(&c.Business.Timezone, domain.DefaultTimezone)
	setDefaultString(&c.Business.ShopName, "Barbershop")

	setDefaultString(&c.Mail.BaseURL, "https://api.resend.com")
	setDefault(&c.Mail.Timeout, 10)
	if c.Mail.RatePerSecond <= 0 {
		c.Mail.RatePerSecond = 2
	}

	setDefault(&c.Tasks.PollInterval, 5)
	setDefault(&c.Tasks.BatchSize, 20)
	setDefault(&c.Tasks.MaxAttempts, 5)
	setDefault(&c.Tasks.Backoff, 60)
	setDefault(&c.Tasks.Lease, 300)
	setDefault(&c.Tasks.RetentionInterval, int(24*time.Hour/time.Second))

	setDefault(&c.Identity.LinkBatch, domain.DefaultLinkBatch)
	setDefault(&c.Identity.LinkBatchMax, domain.MaxLinkBatch)
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.URL == "" && c.Database.DBName == "" {
		problems = append(problems, "database.dbname or database.url is required")
	}
	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("business.timezone %q: %v", c.Business.Timezone, err))
	}
	if c.Identity.LinkBatchMax > domain.MaxLinkBatch {
		problems = append(problems, fmt.Sprintf("identity.link_batch_max must not exceed %d", domain.MaxLinkBatch))
	}
	if c.Identity.LinkBatch > c.Identity.LinkBatchMax {
		problems = append(problems, "identity.link_batch must not exceed identity.link_batch_max")
	}
	if c.Mail.APIKey != "" && c.Mail.From == "" {
		problems = append(problems, "mail.from is required when mail.api_key is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setDefaultString(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}
