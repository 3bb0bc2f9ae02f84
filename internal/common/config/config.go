package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Board sizes are fixed business rules, not deployment knobs.
const (
	MinBoardNumbers    = 5
	MaxBoardNumbers    = 8
	WinningNumberCount = 3
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"clublotto"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
		AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		JWTSecret string `env:"JWT_SECRET,required"`
	}

	Lotto struct {
		// PoolSize is the upper bound of the number pool (boards pick from 1..PoolSize).
		PoolSize int `env:"LOTTO_POOL_SIZE" envDefault:"20"`

		// Prices per board in the smallest currency unit, keyed by number count
		// from MinBoardNumbers to MaxBoardNumbers.
		Prices []int64 `env:"LOTTO_PRICES" envDefault:"20,40,80,160" envSeparator:","`
	}

	Workers struct {
		// PendingTxTTL is how long a deposit request may stay pending before the
		// expirer rejects it. Zero disables the worker.
		PendingTxTTL  time.Duration `env:"PENDING_TX_TTL" envDefault:"0"`
		SweepInterval time.Duration `env:"PENDING_TX_SWEEP_INTERVAL" envDefault:"10m"`
	}
}

// GetDSN builds the lib/pq connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

// PriceFor returns the board price for the given number count, or an error when
// the count is outside the allowed range.
func (c *Config) PriceFor(numberCount int) (int64, error) {
	if numberCount < MinBoardNumbers || numberCount > MaxBoardNumbers {
		return 0, fmt.Errorf("no price for %d numbers", numberCount)
	}
	return c.Lotto.Prices[numberCount-MinBoardNumbers], nil
}

// Validate checks the business-rule sections of the configuration.
func (c *Config) Validate() error {
	if c.Lotto.PoolSize < MaxBoardNumbers {
		return fmt.Errorf("LOTTO_POOL_SIZE must be at least %d, got %d", MaxBoardNumbers, c.Lotto.PoolSize)
	}
	want := MaxBoardNumbers - MinBoardNumbers + 1
	if len(c.Lotto.Prices) != want {
		return fmt.Errorf("LOTTO_PRICES must have %d entries, got %d", want, len(c.Lotto.Prices))
	}
	var prev int64
	for i, p := range c.Lotto.Prices {
		if p <= 0 {
			return fmt.Errorf("LOTTO_PRICES entries must be positive, got %d", p)
		}
		if i > 0 && p <= prev {
			return fmt.Errorf("LOTTO_PRICES must increase with number count")
		}
		prev = p
	}
	return nil
}

func Load() (*Config, error) {
	// Missing .env is fine; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics, for use in main.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
