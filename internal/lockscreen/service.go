// Package lockscreen runs the lock pipeline: comic, background, displays, locker.
package lockscreen

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/xkcdlock/xkcdlock/internal/config"
	"github.com/xkcdlock/xkcdlock/pkg/comic"
	"github.com/xkcdlock/xkcdlock/pkg/display"
	"github.com/xkcdlock/xkcdlock/pkg/locker"
	"github.com/xkcdlock/xkcdlock/pkg/render"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

// ComicProvider fetches and downloads comics.
type ComicProvider interface {
	FetchRandom(ctx context.Context) (comic.Comic, error)
	Download(ctx context.Context, c comic.Comic) (comic.RawImage, error)
}

// Renderer turns a downloaded comic into a background image.
type Renderer interface {
	Render(ctx context.Context, raw comic.RawImage) (render.Artifact, error)
}

type Service struct {
	config     *config.Config
	comics     ComicProvider
	renderer   Renderer
	enumerator display.Enumerator
	runner     runner.Runner
	logger     zerolog.Logger
}

func NewService(
	cfg *config.Config,
	comics ComicProvider,
	renderer Renderer,
	enumerator display.Enumerator,
	r runner.Runner,
	logger zerolog.Logger,
) *Service {
	return &Service{
		config:     cfg,
		comics:     comics,
		renderer:   renderer,
		enumerator: enumerator,
		runner:     r,
		logger:     logger,
	}
}

// Lock renders a fresh comic background and launches the locker on every display.
// Each step aborts the run on failure, and a failed run leaves no background behind.
func (s *Service) Lock(ctx context.Context) (err error) {
	artifact, err := s.Artifact(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			s.discard(artifact.Path)
		}
	}()

	displays, err := s.enumerator.List(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug().
		Strs("displays", display.Names(displays)).
		Str("backend", s.enumerator.Backend()).
		Msg("enumerated displays")

	backend, err := s.Backend()
	if err != nil {
		return err
	}

	args := locker.BuildArguments(displays, artifact.Path, s.config.Background.LockImage)
	s.logger.Debug().Strs("args", locker.Flatten(args)).Msg("built locker arguments")

	s.logger.Info().
		Str("locker", backend.Binary()).
		Str("background", artifact.Path).
		Msg("locking screen")

	return locker.Dispatch(ctx, s.runner, backend, args)
}

// Artifact fetches a random comic and renders its background. The downloaded image is
// removed once rendering is over.
func (s *Service) Artifact(ctx context.Context) (render.Artifact, error) {
	c, err := s.comics.FetchRandom(ctx)
	if err != nil {
		return render.Artifact{}, err
	}
	s.logger.Debug().Int("num", c.Num).Str("title", c.Title).Msg("fetched comic")

	raw, err := s.comics.Download(ctx, c)
	if err != nil {
		return render.Artifact{}, err
	}
	s.logger.Debug().Str("path", raw.Path).Msg("downloaded comic image")

	artifact, err := s.renderer.Render(ctx, raw)
	s.discard(raw.Path)
	if err != nil {
		return render.Artifact{}, err
	}
	s.logger.Debug().Str("path", artifact.Path).Msg("rendered background")

	return artifact, nil
}

// Backend resolves the locker from the configured choice and session signal.
func (s *Service) Backend() (locker.Backend, error) {
	choice, err := locker.ParseBackend(s.config.Locker.Choice)
	if err != nil {
		return locker.None, err
	}
	backend, err := locker.Resolve(choice, s.config.Session)
	if err != nil {
		return locker.None, err
	}
	s.logger.Debug().
		Str("choice", choice.String()).
		Str("session", s.config.Session.Type).
		Str("locker", backend.Binary()).
		Msg("resolved locker")
	return backend, nil
}

func (s *Service) discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Debug().Err(err).Str("path", path).Msg("failed to remove file")
	}
}
