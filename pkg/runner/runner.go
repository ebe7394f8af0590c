// Package runner launches external binaries.
//
// It separates two failure modes callers must handle differently: a binary that could not be
// started at all (*LaunchError) and a binary that started but exited unsuccessfully (*ExitError).
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// Runner is the process capability used by the display enumerator and the locker dispatch.
type Runner interface {
	// Output runs name with args, waits for it and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run launches name with args and waits for it to return.
	Run(ctx context.Context, name string, args ...string) error
}

// LaunchError reports a binary that could not be started (missing, not executable, spawn failure).
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitError reports a binary that started but did not exit cleanly.
type ExitError struct {
	Name   string
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v (stderr: %s)", e.Name, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Name, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// IsLaunchError reports whether err means the binary never started.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

// Exec runs binaries with os/exec.
type Exec struct {
	// Detach places launched processes in their own session so they outlive this program.
	Detach bool

	// Stdout and Stderr receive the output of Run. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a runner that detaches launched processes and forwards their output to stderr.
func New() *Exec {
	return &Exec{Detach: true, Stdout: os.Stderr, Stderr: os.Stderr}
}

// Output runs the command and captures stdout.
func (r *Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Name: name, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		return stdout.Bytes(), &ExitError{Name: name, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	return stdout.Bytes(), nil
}

// Run launches the command and waits for it to return.
func (r *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if r.Detach {
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Setsid: true, // Create new session
		}
	}

	if err := cmd.Start(); err != nil {
		return &LaunchError{Name: name, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		return &ExitError{Name: name, Err: err}
	}

	return nil
}
