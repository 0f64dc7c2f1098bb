package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// defaultEnvFile is loaded when present and no file is named explicitly.
const defaultEnvFile = ".env"

type Config struct {
	Env            string     `env:"ENV" envDefault:"local" validate:"oneof=local dev prod"`
	StoragePath    string     `env:"STORAGE_PATH" envDefault:"storage.db" validate:"required"`
	AliasLength    int        `env:"ALIAS_LENGTH" envDefault:"6" validate:"gte=4"`
	BaseURL        string     `env:"BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	CacheSize      int        `env:"CACHE_SIZE" envDefault:"1000" validate:"gte=0"`
	CacheTTLSecs   int        `env:"CACHE_TTL" envDefault:"30" validate:"gt=0"`
	DBMaxOpenConns int        `env:"DB_MAX_OPEN_CONNS" envDefault:"16" validate:"gt=0"`
	HTTPServer     HTTPServer `envPrefix:"HTTP_"`
}

type HTTPServer struct {
	Address            string `env:"ADDRESS" envDefault:"0.0.0.0:8080" validate:"required"`
	TimeoutSeconds     int    `env:"TIMEOUT" envDefault:"4" validate:"gt=0"`
	IdleTimeoutSeconds int    `env:"IDLE_TIMEOUT" envDefault:"60" validate:"gt=0"`
	MaxConcurrency     int64  `env:"MAX_CONCURRENCY" envDefault:"1024" validate:"gt=0"`
	User               string `env:"USER,required" validate:"required"`
	Password           string `env:"PASSWORD,required" validate:"required"`
}

// CacheTTL bounds how long a resolved alias is served from memory.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSecs) * time.Second
}

// Timeout is the per-request deadline.
func (s HTTPServer) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// IdleTimeout is the keep-alive idle limit.
func (s HTTPServer) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// Load reads configuration from the environment. Variables from the dotenv
// file at path are applied first without overriding variables that are
// already set; an empty path loads ./.env when it exists.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load config file %s: %w", path, err)
		}
		return nil
	}

	err := godotenv.Load(defaultEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load config file %s: %w", defaultEnvFile, err)
	}
	return nil
}
