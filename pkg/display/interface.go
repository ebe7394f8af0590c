package display

import (
	"cmp"
	"context"
	"slices"
)

// Display is a connected monitor output
type Display struct {
	Name  string // Backend-assigned output name, e.g. "HDMI-1"
	Width int    // Width in pixels, 0 when the backend does not report it
}

// Enumerator is the interface that all display enumeration backends must satisfy
type Enumerator interface {
	// List returns the connected outputs. The first element is the primary display.
	List(ctx context.Context) ([]Display, error)

	// Backend returns the name of the query tool behind this enumerator
	Backend() string
}

// SortByWidth orders displays widest first. Equal widths keep their original order.
func SortByWidth(displays []Display) {
	slices.SortStableFunc(displays, func(a, b Display) int {
		return cmp.Compare(b.Width, a.Width)
	})
}

// Names returns the output names in order
func Names(displays []Display) []string {
	names := make([]string, 0, len(displays))
	for _, d := range displays {
		names = append(names, d.Name)
	}
	return names
}
