package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Locker names accepted for an explicit locker choice.
const (
	LockerSway = "sway"
	LockerI3   = "i3"
)

// CanvasAuto asks the renderer to size the canvas from the primary monitor.
const CanvasAuto = "auto"

// Config holds all application configuration
type Config struct {
	// Background configuration
	Background BackgroundConfig

	// Locker configuration
	Locker LockerConfig

	// Session signal read from the environment
	Session SessionConfig

	// Comic source configuration
	Comic ComicConfig

	// Render configuration
	Render RenderConfig

	// Log configuration
	Log LogConfig
}

// BackgroundConfig holds the image shown on non-primary displays
type BackgroundConfig struct {
	LockImage string // Path of the fallback background image
}

// LockerConfig holds the explicit locker selection
type LockerConfig struct {
	Choice string // "", "sway" or "i3"
}

// SessionConfig holds the session-type signal. Set distinguishes an empty value from an absent one.
type SessionConfig struct {
	Type string
	Set  bool
}

// ComicConfig holds comic retrieval configuration
type ComicConfig struct {
	BaseURL string        // Root of the comic JSON API
	Timeout time.Duration // HTTP timeout, 0 means none
}

// RenderConfig holds background rendering configuration
type RenderConfig struct {
	Width     int    // Canvas width in pixels
	Height    int    // Canvas height in pixels
	Auto      bool   // Size the canvas from the primary monitor when possible
	OutputDir string // Directory receiving downloaded and rendered images
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Comic: ComicConfig{
			BaseURL: "https://xkcd.com",
			Timeout: 0,
		},
		Render: RenderConfig{
			Width:     1920,
			Height:    1080,
			OutputDir: os.TempDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Background.LockImage == "" {
		return fmt.Errorf("background lock image is required (--bg-lock-image or BG_LOCK_IMAGE)")
	}

	switch c.Locker.Choice {
	case "", LockerSway, LockerI3:
	default:
		return fmt.Errorf("unknown locker %q (expected %q or %q)", c.Locker.Choice, LockerSway, LockerI3)
	}

	u, err := url.Parse(c.Comic.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("comic base URL must be an absolute URL, got %q", c.Comic.BaseURL)
	}

	if c.Comic.Timeout < 0 {
		return fmt.Errorf("comic HTTP timeout cannot be negative")
	}

	if !c.Render.Auto && (c.Render.Width <= 0 || c.Render.Height <= 0) {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}

	if c.Render.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SetCanvas sets the canvas size from "WIDTHxHEIGHT" or "auto"
func (c *Config) SetCanvas(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == CanvasAuto {
		c.Render.Auto = true
		return nil
	}

	w, h, ok := strings.Cut(value, "x")
	if !ok {
		return fmt.Errorf("canvas must be WIDTHxHEIGHT or auto, got %q", value)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return fmt.Errorf("invalid canvas width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return fmt.Errorf("invalid canvas height %q", h)
	}

	c.Render.Auto = false
	c.Render.Width = width
	c.Render.Height = height
	return nil
}

// SetLocker sets the explicit locker choice with validation
func (c *Config) SetLocker(name string) error {
	switch name {
	case LockerSway, LockerI3:
		c.Locker.Choice = name
		return nil
	default:
		return fmt.Errorf("unknown locker %q (expected %q or %q)", name, LockerSway, LockerI3)
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	session := "<unset>"
	if c.Session.Set {
		session = strconv.Quote(c.Session.Type)
	}
	locker := c.Locker.Choice
	if locker == "" {
		locker = "<from session>"
	}
	canvas := fmt.Sprintf("%dx%d", c.Render.Width, c.Render.Height)
	if c.Render.Auto {
		canvas = CanvasAuto
	}

	return fmt.Sprintf(`Configuration:
  Background:
    Lock Image: %s
  Locker:
    Choice: %s
  Session:
    Type: %s
  Comic:
    Base URL: %s
    Timeout: %v
  Render:
    Canvas: %s
    Output Dir: %s
  Log:
    Level: %s
    Format: %s`,
		c.Background.LockImage,
		locker,
		session,
		c.Comic.BaseURL,
		c.Comic.Timeout,
		canvas,
		c.Render.OutputDir,
		c.Log.Level,
		c.Log.Format,
	)
}
