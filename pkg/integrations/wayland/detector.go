package wayland

import (
	"context"
	"encoding/json"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// Swaymsg is the compositor output query tool.
const Swaymsg = "swaymsg"

// Enumerator implements display.Enumerator for sway-compatible compositors
type Enumerator struct {
	runner runner.Runner
}

// NewEnumerator creates a new Wayland enumerator
func NewEnumerator(r runner.Runner) *Enumerator {
	return &Enumerator{runner: r}
}

// Backend returns "swaymsg"
func (e *Enumerator) Backend() string {
	return Swaymsg
}

// List queries swaymsg for outputs, widest first.
// A swaymsg that cannot be launched yields an error satisfying runner.IsLaunchError.
func (e *Enumerator) List(ctx context.Context) ([]display.Display, error) {
	out, err := e.runner.Output(ctx, Swaymsg, "-t", "get_outputs")
	if err != nil {
		return nil, fault.Wrap(fault.ExternalTool, err, "query sway outputs")
	}

	return parseOutputs(out)
}

type output struct {
	Name string `json:"name"`
	Rect struct {
		Width int `json:"width"`
	} `json:"rect"`
}

// parseOutputs decodes the get_outputs reply and sorts it by width
func parseOutputs(data []byte) ([]display.Display, error) {
	var outputs []output
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fault.Wrap(fault.Parse, err, "decode swaymsg get_outputs reply")
	}

	displays := make([]display.Display, 0, len(outputs))
	for _, o := range outputs {
		displays = append(displays, display.Display{Name: o.Name, Width: o.Rect.Width})
	}

	display.SortByWidth(displays)
	return displays, nil
}

var _ display.Enumerator = (*Enumerator)(nil)
