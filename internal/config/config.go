package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Backend     BackendConfig
	Redis       RedisConfig
	Checkout    CheckoutConfig
	Wallet      WalletConfig
	API         APIConfig
	LogLevel    string
}

// BackendConfig is used to call the remote commerce API (cart, orders,
// payments, wallet)
type BackendConfig struct {
	BaseURL    string // e.g. https://api.hugluoutdoor.com; required
	ServiceKey string // BACKEND_SERVICE_API_KEY
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CheckoutConfig drives the payment workflow engine
type CheckoutConfig struct {
	FreeShippingThreshold float64       // subtotal at or above this ships free
	FlatShippingFee       float64       // applied below the threshold
	CallbackPath          string        // 3DS redirect path; must match the gateway exactly
	PollInitialDelay      time.Duration // wait before the first post-challenge status poll
	PollInterval          time.Duration
	PollMaxAttempts       int
}

type WalletConfig struct {
	MinRecharge float64
	MaxRecharge float64
}

type APIConfig struct {
	ClientKeyHash string // bcrypt hash of the mobile client API key
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
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", "600")
	viper.SetDefault("FLAT_SHIPPING_FEE", "30")
	viper.SetDefault("THREEDS_CALLBACK_PATH", "/api/payments/3ds-callback")
	viper.SetDefault("POLL_INITIAL_DELAY", "2s")
	viper.SetDefault("POLL_INTERVAL", "2s")
	viper.SetDefault("POLL_MAX_ATTEMPTS", "5")
	viper.SetDefault("WALLET_MIN_RECHARGE", "10")
	viper.SetDefault("WALLET_MAX_RECHARGE", "10000")

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
		Backend: BackendConfig{
			BaseURL:    strings.TrimSpace(getEnvOrViper("BACKEND_BASE_URL", "")),
			ServiceKey: strings.TrimSpace(getEnvOrViper("BACKEND_SERVICE_API_KEY", "")),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       mustInt(getEnvOrViper("REDIS_DB", "0")),
		},
		Checkout: CheckoutConfig{
			FreeShippingThreshold: mustFloat(getEnvOrViper("FREE_SHIPPING_THRESHOLD", "600")),
			FlatShippingFee:       mustFloat(getEnvOrViper("FLAT_SHIPPING_FEE", "30")),
			CallbackPath:          getEnvOrViper("THREEDS_CALLBACK_PATH", "/api/payments/3ds-callback"),
			PollInitialDelay:      mustDuration(getEnvOrViper("POLL_INITIAL_DELAY", "2s")),
			PollInterval:          mustDuration(getEnvOrViper("POLL_INTERVAL", "2s")),
			PollMaxAttempts:       mustInt(getEnvOrViper("POLL_MAX_ATTEMPTS", "5")),
		},
		Wallet: WalletConfig{
			MinRecharge: mustFloat(getEnvOrViper("WALLET_MIN_RECHARGE", "10")),
			MaxRecharge: mustFloat(getEnvOrViper("WALLET_MAX_RECHARGE", "10000")),
		},
		API: APIConfig{
			ClientKeyHash: strings.TrimSpace(getEnvOrViper("CLIENT_API_KEY_HASH", "")),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if cfg.Checkout.CallbackPath == "" {
		return nil, fmt.Errorf("THREEDS_CALLBACK_PATH is required")
	}
	if cfg.Checkout.PollMaxAttempts < 1 {
		return nil, fmt.Errorf("POLL_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.Wallet.MinRecharge <= 0 || cfg.Wallet.MaxRecharge <= cfg.Wallet.MinRecharge {
		return nil, fmt.Errorf("wallet recharge range is invalid: min=%v max=%v", cfg.Wallet.MinRecharge, cfg.Wallet.MaxRecharge)
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

func mustInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func mustFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func mustDuration(s string) time.Duration {
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return v
}
