package x11

import (
	"context"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

// ScreenProbe reads monitor geometry from the X server through RandR.
type ScreenProbe struct{}

// NewScreenProbe creates a new probe. No connection is held between calls.
func NewScreenProbe() *ScreenProbe {
	return &ScreenProbe{}
}

type crtcSize struct {
	width, height int
	active        bool
}

// CanvasSize returns the size of the widest active CRTC.
func (p *ScreenProbe) CanvasSize(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return 0, 0, fmt.Errorf("RandR extension unavailable: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	resources, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get screen resources: %w", err)
	}

	sizes := make([]crtcSize, 0, len(resources.Crtcs))
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to get CRTC info: %w", err)
		}
		sizes = append(sizes, crtcSize{
			width:  int(info.Width),
			height: int(info.Height),
			active: info.Mode != 0,
		})
	}

	w, h, ok := widest(sizes)
	if !ok {
		return 0, 0, fmt.Errorf("no active CRTC found")
	}
	return w, h, nil
}

// widest picks the first active CRTC with the largest width
func widest(sizes []crtcSize) (int, int, bool) {
	var best crtcSize
	found := false
	for _, s := range sizes {
		if !s.active || s.width == 0 || s.height == 0 {
			continue
		}
		if !found || s.width > best.width {
			best = s
			found = true
		}
	}
	return best.width, best.height, found
}
