package hybrid

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// Enumerator tries a primary backend and falls back to a secondary one only when the
// primary's query tool cannot be launched. Every other primary failure is returned as is.
type Enumerator struct {
	primary  display.Enumerator
	fallback display.Enumerator
	logger   zerolog.Logger

	mu                    sync.Mutex
	lastSuccessfulBackend string
}

// NewEnumerator combines a primary and a fallback enumerator
func NewEnumerator(primary, fallback display.Enumerator, logger zerolog.Logger) *Enumerator {
	return &Enumerator{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// List returns the primary's displays, or the fallback's if the primary tool is unavailable.
func (e *Enumerator) List(ctx context.Context) ([]display.Display, error) {
	displays, err := e.primary.List(ctx)
	if err == nil {
		e.setLast(e.primary.Backend())
		return displays, nil
	}
	if !runner.IsLaunchError(err) {
		return nil, err
	}

	e.logger.Debug().
		Err(err).
		Str("backend", e.primary.Backend()).
		Str("fallback", e.fallback.Backend()).
		Msg("display backend unavailable, falling back")

	displays, fbErr := e.fallback.List(ctx)
	if fbErr == nil {
		e.setLast(e.fallback.Backend())
		return displays, nil
	}
	if runner.IsLaunchError(fbErr) {
		return nil, fault.Wrapf(fault.ExternalTool, fbErr,
			"neither %s nor %s could be launched", e.primary.Backend(), e.fallback.Backend())
	}
	return nil, fbErr
}

// Backend returns the backend that answered the last successful List, or the primary's
// name before any success.
func (e *Enumerator) Backend() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSuccessfulBackend == "" {
		return e.primary.Backend()
	}
	return e.lastSuccessfulBackend
}

func (e *Enumerator) setLast(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSuccessfulBackend = name
}

var _ display.Enumerator = (*Enumerator)(nil)
