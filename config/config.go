package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`

	// Remote booking service.
	BookingServiceURL     string `mapstructure:"BOOKING_SERVICE_URL"`
	BookingServiceTimeout int    `mapstructure:"BOOKING_SERVICE_TIMEOUT_SECONDS"`

	// Booking behaviour.
	SlotDurationMinutes int `mapstructure:"SLOT_DURATION_MINUTES"`
	BatchConcurrency    int `mapstructure:"BATCH_CONCURRENCY"`
	DraftTTLMinutes     int `mapstructure:"DRAFT_TTL_MINUTES"`
	MaxRequestsPerMin   int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Payment provider.
	StripeKey  string `mapstructure:"STRIPE_KEY"`
	PaymentURL string `mapstructure:"PAYMENT_RETURN_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DRAFT_DB", 1)
	viper.SetDefault("BOOKING_SERVICE_URL", "http://localhost:9090")
	viper.SetDefault("BOOKING_SERVICE_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SLOT_DURATION_MINUTES", 60)
	viper.SetDefault("BATCH_CONCURRENCY", 4)
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PAYMENT_RETURN_URL", "http://localhost:3000/booking/complete")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
