package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput(t *testing.T) {
	r := &Exec{}

	out, err := r.Output(context.Background(), "sh", "-c", "echo HDMI-1 connected")
	require.NoError(t, err)
	assert.Equal(t, "HDMI-1 connected\n", string(out))
}

func TestOutputMissingBinary(t *testing.T) {
	r := &Exec{}

	_, err := r.Output(context.Background(), "nonexistent_command_xyz")
	require.Error(t, err)
	assert.True(t, IsLaunchError(err))
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestOutputExitFailure(t *testing.T) {
	r := &Exec{}

	_, err := r.Output(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.False(t, IsLaunchError(err))

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "sh", exitErr.Name)
	assert.Equal(t, "boom", exitErr.Stderr)
}

func TestRun(t *testing.T) {
	var stdout bytes.Buffer
	r := &Exec{Detach: true, Stdout: &stdout}

	require.NoError(t, r.Run(context.Background(), "sh", "-c", "echo locked"))
	assert.Equal(t, "locked\n", stdout.String())
}

func TestRunFailures(t *testing.T) {
	r := &Exec{Detach: true}

	err := r.Run(context.Background(), "nonexistent_command_xyz", "-i", "eDP-1:/tmp/x.png")
	assert.True(t, IsLaunchError(err))

	err = r.Run(context.Background(), "sh", "-c", "exit 1")
	var exitErr *ExitError
	assert.ErrorAs(t, err, &exitErr)
}

func TestErrorMessages(t *testing.T) {
	le := &LaunchError{Name: "swaymsg", Err: exec.ErrNotFound}
	assert.Equal(t, fmt.Sprintf("failed to launch swaymsg: %v", exec.ErrNotFound), le.Error())

	ee := &ExitError{Name: "xrandr", Err: fmt.Errorf("exit status 1"), Stderr: "Can't open display"}
	assert.Equal(t, "xrandr failed: exit status 1 (stderr: Can't open display)", ee.Error())
}

func TestExecImplementsRunner(t *testing.T) {
	var _ Runner = (*Exec)(nil)
}
