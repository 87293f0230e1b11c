package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr  string `mapstructure:"LISTEN_ADDR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
}

// Load reads the configuration from a .env file and environment variables.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("LISTEN_ADDR", ":8080")

	viper.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind the env-only ones.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	// A missing .env file is fine; environment variables still apply.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}
