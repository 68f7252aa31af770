package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Auth    AuthConfig
}

type AppConfig struct {
	Env      string
	PageSize int
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AuthConfig struct {
	Token string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PAGE_SIZE", 10)
	viper.SetDefault("BACKEND_URL", "http://localhost:4000")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		App: AppConfig{
			Env:      viper.GetString("APP_ENV"),
			PageSize: viper.GetInt("APP_PAGE_SIZE"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_URL"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			Token: viper.GetString("AUTH_TOKEN"),
		},
	}
}
