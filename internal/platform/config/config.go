package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string

	// AMQP notification transport; empty disables publishing (a logging no-op
	// notifier is used instead).
	AMQPURL        string
	NotifyExchange string

	// Redis, used for the per-account correction locks; empty disables
	// locking and corrections fall back to plain transactions.
	RedisURL string

	// Cron expression for the in-process daily rollover trigger.
	RolloverSchedule string
	// Shared token the external scheduler presents on the rollover endpoint.
	RolloverToken string

	// ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	LockTTL time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "float-ledger-app")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("NOTIFY_EXCHANGE", "floatledger.notifications")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ROLLOVER_SCHEDULE", "5 0 * * *") // daily, shortly after midnight
	viper.SetDefault("ROLLOVER_TOKEN", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("LOCK_TTL", "10s")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTIssuer:        viper.GetString("JWT_ISSUER"),
		AMQPURL:          viper.GetString("AMQP_URL"),
		NotifyExchange:   viper.GetString("NOTIFY_EXCHANGE"),
		RedisURL:         viper.GetString("REDIS_URL"),
		RolloverSchedule: viper.GetString("ROLLOVER_SCHEDULE"),
		RolloverToken:    viper.GetString("ROLLOVER_TOKEN"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is the insecure default in production mode.")
	}
	if cfg.RolloverToken == "" {
		log.Println("Warning: ROLLOVER_TOKEN not set; external rollover triggers will be rejected.")
	}

	lockTTL, err := time.ParseDuration(viper.GetString("LOCK_TTL"))
	if err != nil {
		lockTTL = 10 * time.Second
		log.Printf("Warning: Invalid value for LOCK_TTL. Defaulting to %s.\n", lockTTL)
	}
	cfg.LockTTL = lockTTL

	return cfg, nil
}
