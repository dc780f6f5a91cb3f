package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"production"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	TokenSecret string `env:"TOKEN_AUTH_SECRET"`

	IDs     IDConfig
	Sports  SportConfig
	Stats   StatsConfig
	Storage S3Config `envPrefix:"S3_"`
	Events  EventsConfig
}

type IDConfig struct {
	TeamPrefix   string `env:"TEAM_ID_PREFIX" envDefault:"TM"`
	PlayerPrefix string `env:"PLAYER_ID_PREFIX" envDefault:"PL"`
	Width        int    `env:"ID_WIDTH" envDefault:"4"`
}

type SportConfig struct {
	// MaxPlayers is keyed by sport name, e.g. SPORT_MAX_PLAYERS=Football:16,Cricket:15.
	MaxPlayers        map[string]int `env:"SPORT_MAX_PLAYERS" envDefault:"Football:16,Basketball:12,Cricket:15,Volleyball:12"`
	DefaultMaxPlayers int            `env:"DEFAULT_MAX_PLAYERS" envDefault:"20"`
}

// Limit returns the player cap for sport, falling back to the default.
func (s SportConfig) Limit(sport string) int {
	if n, ok := s.MaxPlayers[sport]; ok {
		return n
	}
	return s.DefaultMaxPlayers
}

type StatsConfig struct {
	CacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5s"`
}

type S3Config struct {
	Endpoint        string `env:"ENDPOINT"`
	Region          string `env:"REGION" envDefault:"auto"`
	Bucket          string `env:"BUCKET"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
	UsePathStyle    bool   `env:"USE_PATH_STYLE" envDefault:"true"`
}

// Enabled reports whether uploads can be served from a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type EventsConfig struct {
	NATSURL       string `env:"NATS_URL"`
	SubjectPrefix string `env:"EVENTS_SUBJECT_PREFIX" envDefault:"parakram"`
}

func (c *Config) Development() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return errors.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.TokenSecret == "" {
		return errors.New("TOKEN_AUTH_SECRET is required")
	}
	if c.IDs.Width < 1 || c.IDs.Width > 12 {
		return errors.Errorf("ID_WIDTH must be between 1 and 12, got %d", c.IDs.Width)
	}
	if c.Sports.DefaultMaxPlayers <= 0 {
		return errors.Errorf("DEFAULT_MAX_PLAYERS must be positive, got %d", c.Sports.DefaultMaxPlayers)
	}
	for sport, limit := range c.Sports.MaxPlayers {
		if limit <= 0 {
			return errors.Errorf("SPORT_MAX_PLAYERS: limit for %s must be positive, got %d", sport, limit)
		}
	}
	if c.Stats.CacheTTL < 0 {
		return errors.New("STATS_CACHE_TTL must not be negative")
	}
	return nil
}
