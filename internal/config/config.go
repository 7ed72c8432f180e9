// Package config loads runtime settings from defaults, an optional .env
// file, an optional config file and LEARNPULSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/learnpulse/internal/nudge"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LEARNPULSE"

// Log modes.
const (
	LogDevelopment = "development"
	LogProduction  = "production"
)

// Config holds all runtime settings.
type Config struct {
	// DB is a SQLite path or a postgres:// DSN. Empty means the default
	// per-user data path.
	DB string

	Log    LogConfig
	Nudges NudgeConfig

	// Seed fixes all random generators when non-zero.
	Seed uint64
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode    string // "development" or "production"
	Verbose bool
}

// NudgeConfig configures the nudge engine.
type NudgeConfig struct {
	ActiveLimit int    // nudges kept per learner by the active view
	Parallelism int    // learners evaluated concurrently
	CatalogPath string // optional template file replacing the built-in one
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Mode: LogDevelopment},
		Nudges: NudgeConfig{
			ActiveLimit: nudge.DefaultActiveLimit,
			Parallelism: 4,
		},
	}
}

// LoadOptions selects the optional files Load reads.
type LoadOptions struct {
	// ConfigFile is a YAML, JSON or TOML file. Empty skips it.
	ConfigFile string
	// EnvFile is loaded into the process environment when it exists.
	// Variables already set are not overridden.
	EnvFile string
}

// Load resolves the configuration. Precedence, highest first: LEARNPULSE_*
// environment, config file, DATABASE_URL (for the db key only), defaults.
func Load(opts LoadOptions) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("db", def.DB)
	v.SetDefault("log.mode", def.Log.Mode)
	v.SetDefault("log.verbose", def.Log.Verbose)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("nudges.active_limit", def.Nudges.ActiveLimit)
	v.SetDefault("nudges.parallelism", def.Nudges.Parallelism)
	v.SetDefault("nudges.catalog", def.Nudges.CatalogPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "DATABASE_URL"); err != nil {
		return Config{}, fmt.Errorf("bind DATABASE_URL: %w", err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	}

	cfg := Config{
		DB: v.GetString("db"),
		Log: LogConfig{
			Mode:    v.GetString("log.mode"),
			Verbose: v.GetBool("log.verbose"),
		},
		Nudges: NudgeConfig{
			ActiveLimit: v.GetInt("nudges.active_limit"),
			Parallelism: v.GetInt("nudges.parallelism"),
			CatalogPath: v.GetString("nudges.catalog"),
		},
		Seed: v.GetUint64("seed"),
	}
	if cfg.DB == "" {
		cfg.DB = v.GetString("database_url")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and that referenced files exist.
func (c Config) Validate() error {
	switch c.Log.Mode {
	case LogDevelopment, LogProduction:
	default:
		return fmt.Errorf("unknown log mode %q (want %s or %s)", c.Log.Mode, LogDevelopment, LogProduction)
	}
	if c.Nudges.ActiveLimit < 0 {
		return fmt.Errorf("nudges.active_limit must not be negative: %d", c.Nudges.ActiveLimit)
	}
	if c.Nudges.Parallelism < 1 {
		return fmt.Errorf("nudges.parallelism must be at least 1: %d", c.Nudges.Parallelism)
	}
	if c.Nudges.CatalogPath != "" {
		if _, err := os.Stat(c.Nudges.CatalogPath); err != nil {
			return fmt.Errorf("nudges.catalog: %w", err)
		}
	}
	return nil
}
