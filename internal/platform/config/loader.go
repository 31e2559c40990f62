package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "lookbook-server-go/internal/platform/errors"
)

const defaultConfigFile = ".config.yaml"

// Loader reads configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      defaultConfigFile,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()
	path := l.path
	if env := os.Getenv("LOOKBOOK_CONFIG"); env != "" {
		path = env
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "loader.parse", "failed to parse config file", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "loader.read", "failed to read config file", err)
	}

	l.applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if v := os.Getenv("LOOKBOOK_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LOOKBOOK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Database.DSN == "" {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "database dsn is required")
	}
	if cfg.Pipeline.ProbeTimeout <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "probe_timeout must be positive")
	}
	if cfg.Pipeline.MaxImageBytes <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "max_image_bytes must be positive")
	}
	if cfg.Pipeline.BatchSize <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "batch_size must be positive")
	}
	if cfg.Pipeline.ProgressEvery <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "progress_every must be positive")
	}
	if cfg.Task.MaxRetries < 0 {
		return platformerrors.New(platformerrors.KindConfig, "loader.validate", "max_retries cannot be negative")
	}
	return nil
}
