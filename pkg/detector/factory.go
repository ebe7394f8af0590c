package detector

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/integrations/hybrid"
	"github.com/xkcdlock/xkcdlock/pkg/integrations/wayland"
	"github.com/xkcdlock/xkcdlock/pkg/integrations/x11"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// New returns the display enumerator: swaymsg first, xrandr when swaymsg cannot be launched.
func New(r runner.Runner, logger zerolog.Logger) display.Enumerator {
	return hybrid.NewEnumerator(wayland.NewEnumerator(r), x11.NewEnumerator(r), logger)
}

// DetectDisplayServer guesses the display server from the environment for diagnostics.
// Locker selection does not use it.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
