// Package locker selects a screen locker and builds its command line.
package locker

import (
	"context"
	"fmt"

	"github.com/xkcdlock/xkcdlock/internal/config"
	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// Backend is a supported screen locker. The zero value means no explicit choice.
type Backend int

const (
	None Backend = iota
	Swaylock
	I3lock
)

// Session types that select a locker on their own.
const (
	SessionWayland = "wayland"
	SessionX11     = "x11"
)

// ImageFlag is the per-display image option both lockers accept.
const ImageFlag = "-i"

var (
	swaylockFlags = []string{
		"--ignore-empty-password",
		"--show-failed-attempts",
		"--daemonize",
		"-s", "center",
	}

	i3lockFlags = []string{
		"--textcolor=00000000",
		"--insidecolor=00000000",
		"--ringcolor=fafafaff",
		"--linecolor=00000000",
		"--keyhlcolor=fabb5cff",
		"--ringvercolor=fadd5cff",
		"--separatorcolor=00000000",
		"--insidevercolor=00000000",
		"--ringwrongcolor=f13459ff",
		"--insidewrongcolor=00000000",
	}
)

// ParseBackend maps a configured locker name to a Backend. The empty name is None.
// It accepts exactly the names config.SetLocker does.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "":
		return None, nil
	case config.LockerSway:
		return Swaylock, nil
	case config.LockerI3:
		return I3lock, nil
	default:
		return None, fault.Newf(fault.Configuration, "unknown locker %q", name)
	}
}

// String returns the locker's short name.
func (b Backend) String() string {
	switch b {
	case Swaylock:
		return config.LockerSway
	case I3lock:
		return config.LockerI3
	default:
		return "none"
	}
}

// Binary returns the executable launched for the backend.
func (b Backend) Binary() string {
	switch b {
	case Swaylock:
		return "swaylock"
	case I3lock:
		return "i3lock"
	default:
		return ""
	}
}

// StyleFlags returns the fixed appearance flags passed before the image arguments.
func (b Backend) StyleFlags() []string {
	switch b {
	case Swaylock:
		return append([]string(nil), swaylockFlags...)
	case I3lock:
		return append([]string(nil), i3lockFlags...)
	default:
		return nil
	}
}

// Resolve picks the backend from an explicit choice, or from the session type when there is none.
//
//	choice    session           result
//	Swaylock  any               Swaylock
//	I3lock    any               I3lock
//	None      "wayland"         Swaylock
//	None      "x11"             I3lock
//	None      other, or empty   UnsupportedSessionError
//	None      absent            ConfigurationError
func Resolve(choice Backend, session config.SessionConfig) (Backend, error) {
	switch {
	case choice == Swaylock:
		return Swaylock, nil
	case choice == I3lock:
		return I3lock, nil
	case !session.Set:
		return None, fault.Newf(fault.Configuration,
			"no locker chosen and %s is not set", config.SessionTypeVar)
	case session.Type == SessionWayland:
		return Swaylock, nil
	case session.Type == SessionX11:
		return I3lock, nil
	default:
		return None, fault.Newf(fault.UnsupportedSession,
			"unsupported session type %q", session.Type)
	}
}

// Arg is one option and its value.
type Arg struct {
	Flag  string
	Value string
}

// BuildArguments gives the first display the artifact and every other display the fallback.
func BuildArguments(displays []display.Display, artifactPath, fallbackPath string) []Arg {
	args := make([]Arg, 0, len(displays))
	for i, d := range displays {
		path := fallbackPath
		if i == 0 {
			path = artifactPath
		}
		args = append(args, Arg{Flag: ImageFlag, Value: d.Name + ":" + path})
	}
	return args
}

// Flatten turns args into a command line fragment.
func Flatten(args []Arg) []string {
	out := make([]string, 0, 2*len(args))
	for _, a := range args {
		out = append(out, a.Flag, a.Value)
	}
	return out
}

// Command returns the binary and full argument list for backend.
func Command(b Backend, args []Arg) (string, []string) {
	return b.Binary(), append(b.StyleFlags(), Flatten(args)...)
}

// Dispatch launches the locker and waits for it to return.
func Dispatch(ctx context.Context, r runner.Runner, b Backend, args []Arg) error {
	if b == None {
		return fault.New(fault.Configuration, "no locker selected")
	}

	name, argv := Command(b, args)
	if err := r.Run(ctx, name, argv...); err != nil {
		if runner.IsLaunchError(err) {
			return fault.Wrapf(fault.ExternalTool, err, "could not launch %s", name)
		}
		return fault.Wrapf(fault.ExternalTool, err, "%s exited unsuccessfully", name)
	}
	return nil
}

func (a Arg) String() string {
	return fmt.Sprintf("%s %s", a.Flag, a.Value)
}
