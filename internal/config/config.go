// Package config reads the server configuration from the environment, an
// optional .env file and command line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownDriver   = errors.New("unknown database driver")
	ErrMissingDatabase = errors.New("missing database configuration")
)

type Postgres struct {
	DB       string
	User     string
	Password string
	Host     string
	Port     string
}

// ConnString returns the lib/pq connection URL.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type Config struct {
	HTTPAddr       string
	DBDriver       string
	Postgres       Postgres
	SQLitePath     string
	RedisAddr      string
	CacheTTL       time.Duration
	AdminJWTSecret string
	LogLevel       string
	// VoteRateLimit is the number of votes accepted per client IP per minute.
	// Zero disables the limiter.
	VoteRateLimit int
}

// Load reads .env files when present, then the environment, then args.
func Load(args []string, envFiles ...string) (Config, error) {
	return LoadForDriver("", args, envFiles...)
}

// LoadForDriver is Load with the database driver pinned, for tools that
// only work against one backend. An empty driver keeps DB_DRIVER.
func LoadForDriver(driver string, args []string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		HTTPAddr:   getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		DBDriver:   getEnv("DB_DRIVER", DriverSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "premios.db"),
		Postgres: Postgres{
			DB:       os.Getenv("POSTGRES_DB"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
		},
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.VoteRateLimit, err = getInt("VOTE_RATE_LIMIT", 30); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db", cfg.DBDriver, "database driver (postgres|sqlite)")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address, empty for an in-memory cache")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "question cache TTL, 0 disables caching")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.VoteRateLimit, "vote-rate", cfg.VoteRateLimit, "votes per minute per client, 0 disables the limit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if driver != "" {
		cfg.DBDriver = driver
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.Postgres.DB == "" || c.Postgres.User == "" {
			return fmt.Errorf("%w: POSTGRES_DB and POSTGRES_USER are required", ErrMissingDatabase)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required", ErrMissingDatabase)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DBDriver)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid CACHE_TTL %s", c.CacheTTL)
	}
	if c.VoteRateLimit < 0 {
		return fmt.Errorf("invalid VOTE_RATE_LIMIT %d", c.VoteRateLimit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
