package execx

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestLocalCapturesOutput(t *testing.T) {
	var r Local
	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "out" {
		t.Fatalf("stdout = %q", got)
	}
	if got := strings.TrimSpace(string(res.Stderr)); got != "err" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestLocalNonZeroExitIsNotError(t *testing.T) {
	var r Local
	res, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "exit 3")
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestLocalMissingBinary(t *testing.T) {
	var r Local
	res, err := r.Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary-xyz")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if res.ExitCode != ExitNotFound {
		t.Fatalf("exit code = %d, want %d", res.ExitCode, ExitNotFound)
	}
}

func TestLocalTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var r Local
	res, err := r.Run(ctx, t.TempDir(), "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if res.ExitCode != ExitTimeout {
		t.Fatalf("exit code = %d, want %d", res.ExitCode, ExitTimeout)
	}
}

func TestFakeReplaysAndRecords(t *testing.T) {
	fake := &Fake{Results: map[string]Result{
		"cargo": {Stdout: []byte(`{}`), ExitCode: 1},
	}}

	res, err := fake.Run(context.Background(), "/proj", "cargo", "audit", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 1 || string(res.Stdout) != `{}` {
		t.Fatalf("result = %+v", res)
	}
	if len(fake.Calls) != 1 || fake.Calls[0][1] != "audit" {
		t.Fatalf("calls = %v", fake.Calls)
	}

	if _, err := fake.Run(context.Background(), "/proj", "unknown"); !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("unknown command err = %v, want ErrNotFound", err)
	}
}
