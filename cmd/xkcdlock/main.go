package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkcdlock/xkcdlock/internal/config"
	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/internal/lockscreen"
	"github.com/xkcdlock/xkcdlock/internal/logging"
	"github.com/xkcdlock/xkcdlock/pkg/comic"
	"github.com/xkcdlock/xkcdlock/pkg/detector"
	"github.com/xkcdlock/xkcdlock/pkg/integrations/x11"
	"github.com/xkcdlock/xkcdlock/pkg/render"
	"github.com/xkcdlock/xkcdlock/pkg/runner"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "xkcdlock"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	bgLockImage := fs.String("bg-lock-image", "", "background image for non-primary displays")

	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	command := fs.Arg(0)
	// Flags may also follow the command.
	if fs.NArg() > 1 {
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return 2
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "Unexpected arguments: %v\n\n", fs.Args())
			printUsage(stderr)
			return 2
		}
	}

	switch command {
	case "", "lock":
		return report(stderr, lock(*bgLockImage, ""))
	case config.LockerSway, config.LockerI3:
		return report(stderr, lock(*bgLockImage, command))
	case "displays":
		return report(stderr, listDisplays(stdout))
	case "version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(stdout, "  commit: %s\n", commit)
		fmt.Fprintf(stdout, "  built:  %s\n", date)
		return 0
	case "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `xkcdlock - Lock the screen behind a random xkcd comic

Usage:
  xkcdlock [--bg-lock-image PATH] [command]

Commands:
  (none), lock       Lock with the locker matching XDG_SESSION_TYPE
  sway               Lock with swaylock
  i3                 Lock with i3lock
  displays           List the detected displays
  version            Show version information
  help               Show this help message

Examples:
  xkcdlock --bg-lock-image ~/Pictures/wall.png
  xkcdlock --bg-lock-image ~/Pictures/wall.png i3
  xkcdlock displays

Environment Variables:
  BG_LOCK_IMAGE              Background for non-primary displays
  XDG_SESSION_TYPE           Session type selecting the locker (wayland, x11)
  XKCDLOCK_BASE_URL          Comic API root (default https://xkcd.com)
  XKCDLOCK_HTTP_TIMEOUT      HTTP timeout, e.g. 10s (default none)
  XKCDLOCK_CANVAS            Canvas size WIDTHxHEIGHT or auto (default 1920x1080)
  XKCDLOCK_OUTPUT_DIR        Directory for downloaded and rendered images
  LOG_LEVEL                  debug, info, warn or error
  LOG_FORMAT                 text or json

Version: %s
`, version)
}

// report prints err as "<kind>: <message>: <cause>" and returns the exit code.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if fault.KindOf(err) == fault.Unknown {
		err = fault.Wrap(fault.Configuration, err, "invalid configuration")
	}
	fmt.Fprintln(w, err)
	return 1
}

func loadConfig(bgLockImage, choice string) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if bgLockImage != "" {
		cfg.Background.LockImage = bgLockImage
	}
	if choice != "" {
		if err := cfg.SetLocker(choice); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func lock(bgLockImage, choice string) error {
	cfg, err := loadConfig(bgLockImage, choice)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	logger.Debug().Msgf("%s", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := render.Options{
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		Auto:      cfg.Render.Auto,
		OutputDir: cfg.Render.OutputDir,
		Logger:    &logger,
	}
	if cfg.Render.Auto {
		opts.Probe = x11.NewScreenProbe()
	}
	renderer, err := render.New(opts)
	if err != nil {
		return err
	}
	defer renderer.Close()

	comics := comic.NewClient(comic.Options{
		BaseURL: cfg.Comic.BaseURL,
		Timeout: cfg.Comic.Timeout,
		Dir:     cfg.Render.OutputDir,
		Logger:  &logger,
	})

	r := runner.New()
	svc := lockscreen.NewService(cfg, comics, renderer, detector.New(r, logger), r, logger)
	return svc.Lock(ctx)
}

func listDisplays(w io.Writer) error {
	cfg, err := loadConfig("", "")
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enumerator := detector.New(runner.New(), logger)
	displays, err := enumerator.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Display server: %s\n", detector.DetectDisplayServer())
	fmt.Fprintf(w, "Queried with:   %s\n", enumerator.Backend())
	if len(displays) == 0 {
		fmt.Fprintln(w, "No displays found")
		return nil
	}
	for i, d := range displays {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		if d.Width > 0 {
			fmt.Fprintf(w, "%s %s (%dpx)\n", marker, d.Name, d.Width)
		} else {
			fmt.Fprintf(w, "%s %s\n", marker, d.Name)
		}
	}
	return nil
}
