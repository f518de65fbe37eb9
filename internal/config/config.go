package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Redis     RedisConfig     `yaml:"redis"`
	MQ        MQConfig        `yaml:"mq"`
	FCM       FCMConfig       `yaml:"fcm"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Pprof     PprofConfig     `yaml:"pprof"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Habits    HabitsConfig    `yaml:"habits"`
	Reminders RemindersConfig `yaml:"reminders"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// DBConfig accepts either a full URL or discrete connection fields.
type DBConfig struct {
	URL                string        `yaml:"url"`
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	MaxConns           int32         `yaml:"max_conns"`
	MinConns           int32         `yaml:"min_conns"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
}

func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type FCMConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

type MetricsConfig struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

type PprofConfig struct {
	Secret string `yaml:"secret"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type HabitsConfig struct {
	DefaultTimezone string `yaml:"default_timezone"`
	DefaultLogLimit int    `yaml:"default_log_limit"`
	MaxLogLimit     int    `yaml:"max_log_limit"`
}

// RemindersConfig drives the daily due-habit push. Hour is the local hour,
// in the default timezone, from which the day's reminders may go out.
type RemindersConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Hour          int           `yaml:"hour"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "3333",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    120 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		DB: DBConfig{
			Port:               5432,
			MaxConns:           25,
			MinConns:           5,
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		Redis: RedisConfig{IdempotencyTTL: 24 * time.Hour},
		FCM:   FCMConfig{CredentialsFile: "./serviceAccountKey.json"},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 30,
		},
		Habits: HabitsConfig{
			DefaultTimezone: "UTC",
			DefaultLogLimit: 50,
			MaxLogLimit:     500,
		},
		Reminders: RemindersConfig{
			Hour:          8,
			CheckInterval: 15 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, a .env file, the YAML file at
// path and finally the process environment. A missing .env or YAML file is
// not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.DB.URL, "DATABASE_URL")
	setString(&cfg.DB.Host, "DB_HOST")
	setInt(&cfg.DB.Port, "DB_PORT")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.MQ.URL, "MQ_URL")
	setString(&cfg.FCM.CredentialsFile, "FCM_CREDENTIALS_FILE")
	setString(&cfg.Metrics.User, "METRICS_USER")
	setString(&cfg.Metrics.Pass, "METRICS_PASS")
	setString(&cfg.Pprof.Secret, "PPROF_SECRET")
	setString(&cfg.Habits.DefaultTimezone, "DEFAULT_TIMEZONE")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("REMINDERS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Reminders.Enabled = b
		}
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DB.URL == "" && (c.DB.Host == "" || c.DB.Name == "") {
		errs = append(errs, errors.New("database: set DATABASE_URL or db.host and db.name"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if _, err := time.LoadLocation(c.Habits.DefaultTimezone); err != nil || c.Habits.DefaultTimezone == "" {
		errs = append(errs, fmt.Errorf("habits.default_timezone %q is not a valid IANA zone", c.Habits.DefaultTimezone))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit.rps and rate_limit.burst must be positive"))
	}
	if c.Habits.DefaultLogLimit <= 0 || c.Habits.MaxLogLimit < c.Habits.DefaultLogLimit {
		errs = append(errs, errors.New("habits.max_log_limit must be at least habits.default_log_limit (> 0)"))
	}
	if c.Reminders.Enabled && (c.Reminders.Hour < 0 || c.Reminders.Hour > 23 || c.Reminders.CheckInterval <= 0) {
		errs = append(errs, errors.New("reminders.hour must be 0-23 and reminders.check_interval positive"))
	}
	if c.DB.MinConns > c.DB.MaxConns {
		errs = append(errs, errors.New("db.min_conns cannot exceed db.max_conns"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
