package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	Mongo  MongoConfig
	Stripe StripeConfig
	JWT    JWTConfig
	Redis  RedisConfig
	Lock   LockConfig
	NSQ    NSQConfig
	Wallet WalletConfig
	Log    LogConfig
}

type AppConfig struct {
	Environment string
	Port        string
}

type MongoConfig struct {
	URI      string
	Database string
}

type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// RedisConfig is optional; an empty Addr disables the reference lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

// NSQConfig is optional; an empty NSQDAddr disables event publishing.
type NSQConfig struct {
	NSQDAddr string
	Topic    string
}

type WalletConfig struct {
	CreditOnCompletion bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (local only) and the process environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if v.GetString("APP_ENV") == "local" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Warning: Error loading %s: %s", envFile, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_DATABASE", "shiftpay")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 1440)
	v.SetDefault("JWT_ISSUER", "shiftpay")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("LOCK_WAIT", "3s")
	v.SetDefault("NSQ_TOPIC", "payment_reconciled")
	v.SetDefault("WALLET_CREDIT_ON_COMPLETION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: v.GetString("APP_ENV"),
			Port:        v.GetString("PORT"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGOURI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Stripe: StripeConfig{
			APIKey:        v.GetString("STRIPE_API_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_MINUTES")) * time.Minute,
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Lock: LockConfig{
			TTL:  v.GetDuration("LOCK_TTL"),
			Wait: v.GetDuration("LOCK_WAIT"),
		},
		NSQ: NSQConfig{
			NSQDAddr: v.GetString("NSQD_ADDR"),
			Topic:    v.GetString("NSQ_TOPIC"),
		},
		Wallet: WalletConfig{
			CreditOnCompletion: v.GetBool("WALLET_CREDIT_ON_COMPLETION"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGOURI environment variable not set")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}
	// STRIPE_WEBHOOK_SECRET may be empty; webhook requests then fail with a
	// configuration error.
	return cfg, nil
}
