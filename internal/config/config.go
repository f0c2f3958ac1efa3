package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	OrderAPI    OrderAPIConfig
	Payment     PaymentConfig
	API         APIConfig
	LogLevel    string
}

type OrderAPIConfig struct {
	BaseURL string
}

type PaymentConfig struct {
	BaseURL  string
	Currency string
}

type APIConfig struct {
	KeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		OrderAPI: OrderAPIConfig{
			BaseURL: getEnvOrViper("ORDER_API_BASE_URL", ""),
		},
		Payment: PaymentConfig{
			BaseURL:  getEnvOrViper("PAYMENT_BASE_URL", ""),
			Currency: getEnvOrViper("PAYMENT_CURRENCY", "usd"),
		},
		API: APIConfig{
			KeyHash: getEnvOrViper("API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.OrderAPI.BaseURL == "" {
		return nil, fmt.Errorf("ORDER_API_BASE_URL is required")
	}
	if cfg.Payment.BaseURL == "" {
		cfg.Payment.BaseURL = cfg.OrderAPI.BaseURL
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
