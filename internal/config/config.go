package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"dev"`
	Port    string `envconfig:"PORT" default:"8080"`
	TZ      string `envconfig:"TZ" default:"UTC"`
	Storage string `envconfig:"STORAGE" default:"postgres"`

	DB struct {
		Driver      string `envconfig:"DB_DRIVER" default:"pgx"`
		Host        string `envconfig:"DB_HOST" default:"localhost"`
		Port        string `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER" default:"calometer"`
		Password    string `envconfig:"DB_PASSWORD"`
		Name        string `envconfig:"DB_NAME" default:"calometer"`
		SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	} `envconfig:""`

	Redis struct {
		Host     string `envconfig:"REDIS_HOST"`
		Port     string `envconfig:"REDIS_PORT" default:"6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	} `envconfig:""`

	JWT struct {
		Secret string        `envconfig:"JWT_SECRET" required:"true"`
		Issuer string        `envconfig:"JWT_ISSUER" default:"calometer"`
		TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	} `envconfig:""`

	RateLimit struct {
		Requests int           `envconfig:"RATE_LIMIT" default:"100"`
		Window   time.Duration `envconfig:"RATE_WINDOW" default:"1m"`
	} `envconfig:""`

	HistoryCacheTTL time.Duration `envconfig:"HISTORY_CACHE_TTL" default:"10m"`
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	switch cfg.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return Config{}, fmt.Errorf("config: unsupported STORAGE %q", cfg.Storage)
	}
	switch cfg.DB.Driver {
	case "pgx", "postgres":
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
