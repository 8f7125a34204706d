// Package config loads engine settings from the environment and an optional
// TOML file. Environment values (with their defaults) are read first; keys
// present in the file override them; command-line flags are applied last by
// the caller.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"gmc/internal/core"
	"gmc/internal/store"
)

// Config is the full engine configuration.
type Config struct {
	DB      DBConfig      `toml:"database" envPrefix:"DB_"`
	Log     LogConfig     `toml:"log" envPrefix:"GMC_LOG_"`
	Timeout time.Duration `toml:"timeout" env:"GMC_TIMEOUT" envDefault:"30s" validate:"gte=0"`
}

// DBConfig describes the MySQL store. DSN, when set, wins over the discrete fields.
type DBConfig struct {
	DSN         string        `toml:"dsn" env:"DSN"`
	Host        string        `toml:"host" env:"HOST" envDefault:"localhost" validate:"required_without=DSN"`
	Port        int           `toml:"port" env:"PORT" envDefault:"3306" validate:"gte=1,lte=65535"`
	User        string        `toml:"user" env:"USER" envDefault:"root" validate:"required_without=DSN"`
	Password    string        `toml:"password" env:"PASSWORD"`
	Name        string        `toml:"name" env:"NAME" envDefault:"game_mechanics_creator" validate:"required_without=DSN"`
	MaxConns    int           `toml:"max_conns" env:"MAX_CONNS" envDefault:"10" validate:"gte=1"`
	MaxIdle     int           `toml:"max_idle" env:"MAX_IDLE" envDefault:"10" validate:"gte=0,ltefield=MaxConns"`
	DialTimeout time.Duration `toml:"dial_timeout" env:"DIAL_TIMEOUT" envDefault:"10s" validate:"gte=0"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `toml:"format" env:"FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Load reads the environment, overlays the TOML file at path when path is
// non-empty, and validates the result.
func Load(path string) (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	md, err := toml.NewDecoder(f).Decode(cfg)
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := core.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// StoreOptions converts the database section for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		DSN:         c.DB.DSN,
		Host:        c.DB.Host,
		Port:        c.DB.Port,
		User:        c.DB.User,
		Password:    c.DB.Password,
		Database:    c.DB.Name,
		MaxConns:    c.DB.MaxConns,
		MaxIdle:     c.DB.MaxIdle,
		DialTimeout: c.DB.DialTimeout,
	}
}

// SlogLevel maps the configured level name.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
