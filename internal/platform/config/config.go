package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Env  string `env:"APP_ENV" env-default:"development"`
	Port string `env:"APP_PORT" env-default:"8080"`

	DatabaseURL    string `env:"DATABASE_URL" env-required:"true"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" env-default:"true"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" env-default:"5"`

	// Empty MongoURI disables reviews.
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"coffee_tracker_mongo"`

	// Empty RedisAddr selects the in-process locker.
	RedisAddr    string        `env:"REDIS_ADDRESS"`
	LockTTL      time.Duration `env:"LOCK_TTL" env-default:"10s"`
	KafkaBrokers []string      `env:"KAFKA_BROKERS" env-separator:","`

	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	LowStockThreshold int           `env:"LOW_STOCK_THRESHOLD" env-default:"10"`
	ExpiryCheckSpec   string        `env:"EXPIRY_CHECK_SPEC" env-default:"@every 1h"`
	ExpiryWindow      time.Duration `env:"EXPIRY_WINDOW" env-default:"168h"`

	CredentialsSeedPath string `env:"CREDENTIALS_SEED_PATH"`

	ReviewRateLimit float64 `env:"REVIEW_RATE_LIMIT" env-default:"1"`
	ReviewRateBurst int     `env:"REVIEW_RATE_BURST" env-default:"5"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.ReviewRateLimit <= 0 || c.ReviewRateBurst <= 0 {
		return fmt.Errorf("REVIEW_RATE_LIMIT and REVIEW_RATE_BURST must be positive")
	}
	return nil
}
