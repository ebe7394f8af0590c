package locker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkcdlock/xkcdlock/internal/config"
	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
	"github.com/xkcdlock/xkcdlock/pkg/runner/runnertest"
)

func session(value string) config.SessionConfig {
	return config.SessionConfig{Type: value, Set: true}
}

func TestResolve(t *testing.T) {
	absent := config.SessionConfig{}

	tests := []struct {
		name     string
		choice   Backend
		session  config.SessionConfig
		want     Backend
		wantKind fault.Kind
	}{
		{"Explicit swaylock on x11", Swaylock, session("x11"), Swaylock, ""},
		{"Explicit i3lock on wayland", I3lock, session("wayland"), I3lock, ""},
		{"Explicit swaylock without session", Swaylock, absent, Swaylock, ""},
		{"Explicit i3lock on tty", I3lock, session("tty"), I3lock, ""},
		{"Wayland session", None, session("wayland"), Swaylock, ""},
		{"X11 session", None, session("x11"), I3lock, ""},
		{"Tty session", None, session("tty"), None, fault.UnsupportedSession},
		{"Empty session", None, session(""), None, fault.UnsupportedSession},
		{"Case matters", None, session("Wayland"), None, fault.UnsupportedSession},
		{"Absent session", None, absent, None, fault.Configuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.choice, tt.session)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, fault.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", None, false},
		{"sway", Swaylock, false},
		{"i3", I3lock, false},
		{"swaylock", None, true},
		{"i3lock", None, true},
		{"Sway", None, true},
		{"xscreensaver", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, fault.Configuration, fault.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBackendAgreesWithConfig(t *testing.T) {
	for _, name := range []string{"sway", "i3", "swaylock", "i3lock", "Sway", " i3", "xscreensaver"} {
		t.Run(name, func(t *testing.T) {
			cfgErr := config.Default().SetLocker(name)
			_, parseErr := ParseBackend(name)
			assert.Equal(t, cfgErr == nil, parseErr == nil)
		})
	}
}

func TestBuildArguments(t *testing.T) {
	displays := []display.Display{{Name: "HDMI-1", Width: 1920}, {Name: "eDP-1", Width: 1366}}

	got := BuildArguments(displays, "/tmp/comic.png", "/etc/wall.png")
	assert.Equal(t, []Arg{
		{Flag: "-i", Value: "HDMI-1:/tmp/comic.png"},
		{Flag: "-i", Value: "eDP-1:/etc/wall.png"},
	}, got)
	assert.Equal(t, []string{"-i", "HDMI-1:/tmp/comic.png", "-i", "eDP-1:/etc/wall.png"}, Flatten(got))
}

func TestBuildArgumentsPrimaryOnlyGetsArtifact(t *testing.T) {
	displays := []display.Display{{Name: "DP-1"}, {Name: "DP-2"}, {Name: "DP-3"}}

	got := BuildArguments(displays, "/tmp/a.png", "/bg.png")
	require.Len(t, got, 3)
	assert.Equal(t, "DP-1:/tmp/a.png", got[0].Value)
	for _, a := range got[1:] {
		assert.Equal(t, ImageFlag, a.Flag)
		assert.Contains(t, a.Value, ":/bg.png")
	}
}

func TestBuildArgumentsNoDisplays(t *testing.T) {
	got := BuildArguments(nil, "/tmp/comic.png", "/etc/wall.png")
	assert.Empty(t, got)
	assert.Empty(t, Flatten(got))

	name, argv := Command(Swaylock, got)
	assert.Equal(t, "swaylock", name)
	assert.Equal(t, []string{"--ignore-empty-password", "--show-failed-attempts", "--daemonize", "-s", "center"}, argv)
}

func TestStyleFlagsAreCopies(t *testing.T) {
	flags := I3lock.StyleFlags()
	flags[0] = "--tampered"
	assert.Equal(t, "--textcolor=00000000", I3lock.StyleFlags()[0])
	assert.Len(t, I3lock.StyleFlags(), 10)
	assert.Nil(t, None.StyleFlags())
}

func TestDispatch(t *testing.T) {
	fake := runnertest.New().OnSuccess("i3lock", "")
	args := []Arg{{Flag: "-i", Value: "HDMI-1:/tmp/comic.png"}}

	require.NoError(t, Dispatch(context.Background(), fake, I3lock, args))

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Run", calls[0].Method)
	assert.Equal(t, "i3lock", calls[0].Name)
	assert.Equal(t, append(I3lock.StyleFlags(), "-i", "HDMI-1:/tmp/comic.png"), calls[0].Args)
}

func TestDispatchExplicitChoiceOverridesSession(t *testing.T) {
	fake := runnertest.New().OnSuccess("i3lock", "").OnSuccess("swaylock", "")

	b, err := Resolve(I3lock, session("wayland"))
	require.NoError(t, err)
	require.NoError(t, Dispatch(context.Background(), fake, b, nil))
	assert.Equal(t, []string{"i3lock"}, fake.Names())
}

func TestDispatchFailures(t *testing.T) {
	t.Run("Not installed", func(t *testing.T) {
		err := Dispatch(context.Background(), runnertest.New(), Swaylock, nil)
		require.Error(t, err)
		assert.Equal(t, fault.ExternalTool, fault.KindOf(err))
		assert.True(t, runner.IsLaunchError(err))
	})

	t.Run("Exits non-zero", func(t *testing.T) {
		fake := runnertest.New().On("swaylock", nil, &runner.ExitError{Name: "swaylock", Err: assert.AnError})
		err := Dispatch(context.Background(), fake, Swaylock, nil)
		require.Error(t, err)
		assert.Equal(t, fault.ExternalTool, fault.KindOf(err))
		assert.Contains(t, err.Error(), "exited unsuccessfully")
	})

	t.Run("No backend", func(t *testing.T) {
		fake := runnertest.New()
		err := Dispatch(context.Background(), fake, None, nil)
		require.Error(t, err)
		assert.Equal(t, fault.Configuration, fault.KindOf(err))
		assert.Empty(t, fake.Calls())
	})
}

func TestBackendNames(t *testing.T) {
	assert.Equal(t, "sway", Swaylock.String())
	assert.Equal(t, "i3", I3lock.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "", None.Binary())
}
