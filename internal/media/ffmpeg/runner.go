package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner abstracts command execution for testability.
type Runner interface {
	// CombinedOutput runs binary and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, binary string, args ...string) ([]byte, error)
	// Run executes binary streaming stdout and stderr to the given writers.
	// Nil writers discard the stream.
	Run(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error
}

// ExitError reports a command that could not be started or exited non-zero.
type ExitError struct {
	Binary string
	Args   []string
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Binary, e.Code)
	if e.Code < 0 {
		msg = fmt.Sprintf("%s failed to run", e.Binary)
	}
	if tail := lastLine(e.Output); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// CommandRunner executes real processes via os/exec.
type CommandRunner struct{}

// CombinedOutput implements Runner.
func (CommandRunner) CombinedOutput(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, newExitError(binary, args, output, err)
	}
	return output, nil
}

// Run implements Runner. The tail of stderr is kept for the error message even
// when stderr is forwarded.
func (CommandRunner) Run(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var captured bytes.Buffer
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(&captured, stderr)
	} else {
		cmd.Stderr = &captured
	}
	if err := cmd.Run(); err != nil {
		return newExitError(binary, args, captured.Bytes(), err)
	}
	return nil
}

func newExitError(binary string, args []string, output []byte, err error) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ExitError{
		Binary: binary,
		Args:   append([]string(nil), args...),
		Code:   code,
		Output: string(output),
		Err:    err,
	}
}

func lastLine(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndexByte(trimmed, '\n'); idx >= 0 {
		return strings.TrimSpace(trimmed[idx+1:])
	}
	return trimmed
}
