package x11

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// Xrandr is the legacy output query tool.
const Xrandr = "xrandr"

// connectedMarker selects connected outputs; the surrounding spaces keep "disconnected" out.
const connectedMarker = " connected "

// Enumerator implements display.Enumerator for X11 via xrandr
type Enumerator struct {
	runner runner.Runner
}

// NewEnumerator creates a new X11 enumerator
func NewEnumerator(r runner.Runner) *Enumerator {
	return &Enumerator{runner: r}
}

// Backend returns "xrandr"
func (e *Enumerator) Backend() string {
	return Xrandr
}

// List returns connected outputs in the order xrandr prints them.
// xrandr reports no usable width here, so no ordering is applied.
func (e *Enumerator) List(ctx context.Context) ([]display.Display, error) {
	out, err := e.runner.Output(ctx, Xrandr)
	if err != nil {
		return nil, fault.Wrap(fault.ExternalTool, err, "query xrandr outputs")
	}

	return parseXrandr(out)
}

// parseXrandr extracts the names of connected outputs from xrandr's text output
func parseXrandr(data []byte) ([]display.Display, error) {
	displays := []display.Display{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, connectedMarker) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		displays = append(displays, display.Display{Name: fields[0]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(fault.Parse, err, "read xrandr output")
	}

	return displays, nil
}

var _ display.Enumerator = (*Enumerator)(nil)
