package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// SessionTypeVar is the environment variable carrying the session-type signal.
const SessionTypeVar = "XDG_SESSION_TYPE"

type envVars struct {
	BgLockImage string        `env:"BG_LOCK_IMAGE"`
	BaseURL     string        `env:"XKCDLOCK_BASE_URL"`
	HTTPTimeout time.Duration `env:"XKCDLOCK_HTTP_TIMEOUT"`
	Canvas      string        `env:"XKCDLOCK_CANVAS"`
	OutputDir   string        `env:"XKCDLOCK_OUTPUT_DIR"`
	LogLevel    string        `env:"LOG_LEVEL"`
	LogFormat   string        `env:"LOG_FORMAT"`
}

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) error {
	var vars envVars
	if err := env.Load(&vars, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if vars.BgLockImage != "" {
		cfg.Background.LockImage = vars.BgLockImage
	}

	if vars.BaseURL != "" {
		cfg.Comic.BaseURL = vars.BaseURL
	}

	if vars.HTTPTimeout > 0 {
		cfg.Comic.Timeout = vars.HTTPTimeout
	}

	if vars.Canvas != "" {
		if err := cfg.SetCanvas(vars.Canvas); err != nil {
			return fmt.Errorf("XKCDLOCK_CANVAS: %w", err)
		}
	}

	if vars.OutputDir != "" {
		cfg.Render.OutputDir = vars.OutputDir
	}

	if vars.LogLevel != "" {
		cfg.Log.Level = vars.LogLevel
	}

	if vars.LogFormat != "" {
		cfg.Log.Format = vars.LogFormat
	}

	// An empty XDG_SESSION_TYPE is a present signal, so presence is tracked separately.
	cfg.Session.Type, cfg.Session.Set = os.LookupEnv(SessionTypeVar)

	return nil
}

// New creates a new Config with default values, an optional .env file and the environment
func New() (*Config, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
