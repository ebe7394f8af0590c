package x11

import (
	"context"
	"testing"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
	"github.com/xkcdlock/xkcdlock/pkg/runner/runnertest"
)

const sampleXrandr = `Screen 0: minimum 8 x 8, current 3286 x 1080, maximum 32767 x 32767
eDP-1 connected primary 1366x768+1920+0 (normal left inverted right x axis y axis) 309mm x 173mm
   1366x768      60.00*+
HDMI-1 connected 1920x1080+0+0 (normal left inverted right x axis y axis) 531mm x 299mm
   1920x1080     60.00*+  50.00    59.94
DP-1 disconnected (normal left inverted right x axis y axis)
VIRTUAL1 disconnected (normal left inverted right x axis y axis)
`

func TestBackend(t *testing.T) {
	e := NewEnumerator(runnertest.New())
	if e.Backend() != "xrandr" {
		t.Errorf("Backend() = %s, want xrandr", e.Backend())
	}
}

func TestList(t *testing.T) {
	fake := runnertest.New().OnSuccess(Xrandr, sampleXrandr)
	e := NewEnumerator(fake)

	displays, err := e.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	got := display.Names(displays)
	want := []string{"eDP-1", "HDMI-1"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("List() = %v, want %v (xrandr order, unsorted)", got, want)
	}
}

func TestListUnavailable(t *testing.T) {
	e := NewEnumerator(runnertest.New().Unavailable(Xrandr))

	_, err := e.List(context.Background())
	if err == nil {
		t.Fatal("List() error = nil, want launch failure")
	}
	if !runner.IsLaunchError(err) {
		t.Errorf("List() error = %v, want launch error", err)
	}
	if fault.KindOf(err) != fault.ExternalTool {
		t.Errorf("KindOf() = %s, want %s", fault.KindOf(err), fault.ExternalTool)
	}
}

func TestParseXrandr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Standard output",
			input:    sampleXrandr,
			expected: []string{"eDP-1", "HDMI-1"},
		},
		{
			name:     "Empty output",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Only disconnected",
			input:    "DP-1 disconnected (normal)\nDP-2 disconnected (normal)\n",
			expected: []string{},
		},
		{
			name:     "Marker without trailing space is ignored",
			input:    "DP-1 connected\nDP-2 connected 2560x1440+0+0\n",
			expected: []string{"DP-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			displays, err := parseXrandr([]byte(tt.input))
			if err != nil {
				t.Fatalf("parseXrandr() error: %v", err)
			}
			got := display.Names(displays)
			if len(got) != len(tt.expected) {
				t.Fatalf("parseXrandr() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("parseXrandr() = %v, want %v", got, tt.expected)
				}
				if displays[i].Width != 0 {
					t.Errorf("Width = %d, want 0", displays[i].Width)
				}
			}
		})
	}
}

func TestEnumeratorInterface(t *testing.T) {
	var _ display.Enumerator = (*Enumerator)(nil)
}
