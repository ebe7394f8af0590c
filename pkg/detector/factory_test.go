package detector

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner/runnertest"
)

func TestNew(t *testing.T) {
	fake := runnertest.New().
		Unavailable("swaymsg").
		OnSuccess("xrandr", "HDMI-1 connected 1920x1080+0+0\n")

	enumerator := New(fake, zerolog.Nop())
	if enumerator == nil {
		t.Fatal("New() returned nil enumerator")
	}

	displays, err := enumerator.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if names := display.Names(displays); len(names) != 1 || names[0] != "HDMI-1" {
		t.Errorf("List() = %v, want [HDMI-1]", names)
	}
	if enumerator.Backend() != "xrandr" {
		t.Errorf("Backend() = %s, want xrandr", enumerator.Backend())
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name             string
		sessionType      string
		waylandDisplay   string
		x11Display       string
		expectedContains string
	}{
		{
			name:             "Wayland session",
			sessionType:      "wayland",
			waylandDisplay:   "wayland-0",
			x11Display:       "",
			expectedContains: "wayland",
		},
		{
			name:             "X11 session",
			sessionType:      "x11",
			waylandDisplay:   "",
			x11Display:       ":0",
			expectedContains: "x11",
		},
		{
			name:             "Unknown session",
			sessionType:      "",
			waylandDisplay:   "",
			x11Display:       "",
			expectedContains: "unknown",
		},
		{
			name:             "Wayland display set",
			sessionType:      "",
			waylandDisplay:   "wayland-1",
			x11Display:       "",
			expectedContains: "wayland",
		},
		{
			name:             "X11 display set",
			sessionType:      "",
			waylandDisplay:   "",
			x11Display:       ":1",
			expectedContains: "x11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			result := DetectDisplayServer()
			if result != tt.expectedContains {
				t.Errorf("DetectDisplayServer() = %s, want %s", result, tt.expectedContains)
			}
		})
	}
}
