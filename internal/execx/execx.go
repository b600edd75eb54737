// Package execx wraps subprocess invocation behind a Runner interface so
// checks that shell out to external tools can be tested without the tool
// installed.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Exit codes reported for failures that never produce a process exit status.
const (
	ExitTimeout  = 124
	ExitNotFound = 127
)

// Result carries the outcome of a completed command. A non-zero ExitCode is
// not an error at this layer; callers decide what a failing tool means.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands. The error return is reserved for
// failures to run at all: the binary is missing, the context expired, or
// the process could not be started.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Local runs commands on the host.
type Local struct{}

func (Local) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = ExitTimeout
		return res, ctx.Err()
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = ExitNotFound
		return res, err
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, err
	}
}

// Fake replays canned results keyed by command name. Commands without an
// entry behave as if the binary were missing.
type Fake struct {
	Results map[string]Result
	Errs    map[string]error
	// Calls records each invocation as name followed by its arguments.
	Calls [][]string
}

func (f *Fake) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	f.Calls = append(f.Calls, append([]string{name}, args...))
	if err, ok := f.Errs[name]; ok {
		return Result{ExitCode: ExitNotFound}, err
	}
	res, ok := f.Results[name]
	if !ok {
		return Result{ExitCode: ExitNotFound}, exec.ErrNotFound
	}
	return res, nil
}
