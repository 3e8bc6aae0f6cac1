package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type RateLimit struct {
	Enabled      bool          `mapstructure:"enabled"`
	RPS          float64       `mapstructure:"rps"`
	Burst        int           `mapstructure:"burst"`
	MaxStrikes   int64         `mapstructure:"max_strikes"`
	StrikeWindow time.Duration `mapstructure:"strike_window"`
	BanDuration  time.Duration `mapstructure:"ban_duration"`
	VisitorTTL   time.Duration `mapstructure:"visitor_ttl"`
}

type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	DatabaseURL     string        `mapstructure:"database_url"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	RateLimit       RateLimit     `mapstructure:"rate_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("query_timeout", 3*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.max_strikes", 5)
	v.SetDefault("rate_limit.strike_window", time.Minute)
	v.SetDefault("rate_limit.ban_duration", 15*time.Minute)
	v.SetDefault("rate_limit.visitor_ttl", 5*time.Minute)
}

// Load reads configuration from, in increasing priority: defaults, an
// optional config.yaml, a .env file and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/plant-store")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr must not be empty")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return errors.New("rate_limit.rps must be greater than zero")
		}
		if c.RateLimit.Burst <= 0 {
			return errors.New("rate_limit.burst must be greater than zero")
		}
	}
	return nil
}
