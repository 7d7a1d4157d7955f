package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiry     time.Duration `mapstructure:"expiry"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type RedisConfig struct {
	// URL enables the revoked-token store; empty disables logout
	// revocation but keeps the rest of auth working.
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether visit notification mail should be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type MediaConfig struct {
	Root          string `mapstructure:"root"`
	StaticRoot    string `mapstructure:"static_root"`
	DefaultAvatar string `mapstructure:"default_avatar"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type StatsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Media     MediaConfig     `mapstructure:"media"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "clinic",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			Expiry:     24 * time.Hour,
			BcryptCost: 12,
		},
		Media: MediaConfig{
			Root:          "media",
			StaticRoot:    "static",
			DefaultAvatar: "avatar/default.svg",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   100,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Stats: StatsConfig{
			CacheTTL: 30 * time.Second,
		},
	}
}

// Load reads config.yml (working dir or ./config), then applies
// CLINIC_* environment overrides. A missing file is fine: defaults plus
// environment cover container deployments.
func Load() (*Config, error) {
	cfg := defaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := envconfig.Process("clinic", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (CLINIC_JWT_SECRET)")
	}
	if cfg.JWT.Expiry <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive, got %s", cfg.JWT.Expiry)
	}

	return cfg, nil
}
