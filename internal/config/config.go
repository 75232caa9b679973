package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	Leave     LeaveConfig     `yaml:"leave"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Mail      MailConfig      `yaml:"mail"`
}

type AppConfig struct {
	Env         string `yaml:"env"`
	CompanyName string `yaml:"company_name"`
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxRetries      int           `yaml:"max_retries"`
}

// DSN returns the key/value form used by the gorm postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	MaxRetries int    `yaml:"max_retries"`
}

type KafkaConfig struct {
	Brokers             []string `yaml:"brokers"`
	NotificationGroupID string   `yaml:"notification_group_id"`
	LiveGroupID         string   `yaml:"live_group_id"`
	MaxRetries          int      `yaml:"max_retries"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

// LeaveConfig holds the opening balance granted to every new employee.
type LeaveConfig struct {
	DefaultPaidLeave   int `yaml:"default_paid_leave"`
	DefaultSickLeave   int `yaml:"default_sick_leave"`
	DefaultUnpaidLeave int `yaml:"default_unpaid_leave"`
}

type OutboxConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
}

type MailConfig struct {
	From string `yaml:"from"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `yaml:"login_per_second"`
	LoginBurst     int     `yaml:"login_burst"`
	UserPerSecond  float64 `yaml:"user_per_second"`
	UserBurst      int     `yaml:"user_burst"`
}

// LoadFromEnv reads .env (if present), the optional YAML file named by
// CONFIG_PATH, then applies environment overrides.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()
	return Load(os.Getenv("CONFIG_PATH"))
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{Env: "development", CompanyName: "Dayflow"},
		Server: ServerConfig{
			Port:           "3000",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			MaxRetries:      5,
		},
		Redis: RedisConfig{Addr: "localhost:6379", MaxRetries: 5},
		Kafka: KafkaConfig{
			NotificationGroupID: "dayflow-notification",
			LiveGroupID:         "dayflow-live",
			MaxRetries:          5,
		},
		Auth: AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Leave: LeaveConfig{
			DefaultPaidLeave:   12,
			DefaultSickLeave:   6,
			DefaultUnpaidLeave: 0,
		},
		Outbox: OutboxConfig{PollInterval: 3 * time.Second, BatchSize: 50},
		Mail:   MailConfig{From: "no-reply@dayflow.local"},
		RateLimit: RateLimitConfig{
			LoginPerSecond: 0.1,
			LoginBurst:     5,
			UserPerSecond:  5,
			UserBurst:      10,
		},
	}
}

func (c *Config) applyEnv() error {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.App.CompanyName, "COMPANY_NAME")
	setString(&c.Server.Port, "PORT")
	setList(&c.Server.AllowedOrigins, "CORS_ALLOWED_ORIGINS")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setList(&c.Kafka.Brokers, "KAFKA_BROKER")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Mail.From, "MAIL_FROM")

	if err := setDuration(&c.Outbox.PollInterval, "OUTBOX_POLL_INTERVAL"); err != nil {
		return err
	}
	if err := setInt(&c.Leave.DefaultPaidLeave, "LEAVE_DEFAULT_PAID"); err != nil {
		return err
	}
	if err := setInt(&c.Leave.DefaultSickLeave, "LEAVE_DEFAULT_SICK"); err != nil {
		return err
	}
	return setInt(&c.Leave.DefaultUnpaidLeave, "LEAVE_DEFAULT_UNPAID")
}

func (c *Config) validateAndNormalize() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret (JWT_SECRET) must be set")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database.name (DB_NAME) must be set")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user (DB_USER) must be set")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxRetries <= 0 {
		c.Database.MaxRetries = 1
	}
	if c.Leave.DefaultPaidLeave < 0 || c.Leave.DefaultSickLeave < 0 {
		return fmt.Errorf("config: leave defaults must not be negative")
	}
	if c.Outbox.PollInterval <= 0 {
		c.Outbox.PollInterval = 3 * time.Second
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 50
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}
