// Package config loads server settings from the environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds the arena server settings. Flags registered by BindFlags override
// the values read from the environment.
type Config struct {
	Addr            string        `env:"ARENA_ADDR" envDefault:":8443"`
	Store           string        `env:"ARENA_STORE" envDefault:"memory"`
	DSN             string        `env:"ARENA_DSN"`
	RedisAddr       string        `env:"ARENA_REDIS_ADDR" envDefault:"localhost:6379"`
	JWTKey          string        `env:"ARENA_JWT_KEY"`
	Owner           string        `env:"ARENA_OWNER"`
	TLSCert         string        `env:"ARENA_TLS_CERT"`
	TLSKey          string        `env:"ARENA_TLS_KEY"`
	Dev             bool          `env:"ARENA_DEV"`
	OTelEndpoint    string        `env:"ARENA_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"ARENA_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers one flag per setting, defaulting to the current values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.Store, "store", c.Store, "storage backend: memory, postgres or redis")
	fs.StringVar(&c.DSN, "dsn", c.DSN, "PostgreSQL DSN (postgres store)")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "Redis address (redis store)")
	fs.StringVar(&c.JWTKey, "jwt-key", c.JWTKey, "HS256 signing key (required)")
	fs.StringVar(&c.Owner, "owner", c.Owner, "privileged identity allowed to mint and create clusters (required)")
	fs.StringVar(&c.TLSCert, "tls-cert", c.TLSCert, "TLS certificate (PEM)")
	fs.StringVar(&c.TLSKey, "tls-key", c.TLSKey, "TLS private key (PEM)")
	fs.BoolVar(&c.Dev, "dev", c.Dev, "development logging")
	fs.StringVar(&c.OTelEndpoint, "otel-endpoint", c.OTelEndpoint, "OTLP/HTTP traces endpoint URL; empty disables tracing")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")
}

// Validate reports missing or inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.JWTKey == "" {
		errs = append(errs, errors.New("missing jwt signing key (--jwt-key / ARENA_JWT_KEY)"))
	}
	if c.Owner == "" {
		errs = append(errs, errors.New("missing privileged identity (--owner / ARENA_OWNER)"))
	}
	switch c.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DSN == "" {
			errs = append(errs, errors.New("postgres store needs --dsn / ARENA_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	return errors.Join(errs...)
}

// TLS reports whether the server should listen with TLS.
func (c Config) TLS() bool { return c.TLSCert != "" }
