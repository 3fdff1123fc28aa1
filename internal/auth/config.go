package auth

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Secret          string        `mapstructure:"Secret"`
	AccessTokenTTL  time.Duration `mapstructure:"AccessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"RefreshTokenTTL"`
	RedisAddr       string        `mapstructure:"RedisAddr"`
	RedisPassword   string        `mapstructure:"RedisPassword"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.BindEnv("Secret", "JWT_SECRET")
	v.BindEnv("RedisAddr", "REDIS_ADDR")
	v.BindEnv("RedisPassword", "REDIS_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if cfg.Secret == "" {
		cfg.Secret = v.GetString("JWT_SECRET")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = v.GetString("REDIS_ADDR")
	}

	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}

	return &cfg, nil
}
