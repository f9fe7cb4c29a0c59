// Package platform implements the ports.PlatformAdapter contract, one
// variant per OS family. This package is the only place hostpilot shells
// out: every external call is bounded by a timeout, and a timeout or
// non-zero exit is reported as a falsy/empty result for the caller to act
// on, never as a raised error.
package platform

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/pkg/procutil"
	"github.com/doeshing/hostpilot/internal/ports"
)

// New selects the adapter variant for the given platform. Capabilities are
// shared by reference; the adapter consults them to degrade gracefully when
// a tool is missing. launchers optionally overrides the platform-ordered
// terminal candidate list (ignored on macOS, which spawns through the
// scripting bridge).
func New(p domain.Platform, caps domain.CapabilityMap, launchers []string, log ports.Logger) ports.PlatformAdapter {
	switch p {
	case domain.PlatformMacOS:
		return &darwinAdapter{caps: caps, log: log}
	case domain.PlatformLinux:
		return &linuxAdapter{caps: caps, launchers: launchers, log: log}
	case domain.PlatformWindows:
		return &windowsAdapter{caps: caps, log: log}
	default:
		return &unsupportedAdapter{}
	}
}

// runTool invokes an external binary with a bounded context and returns its
// stdout. ok is false on timeout, missing binary, or non-zero exit.
func runTool(ctx context.Context, timeout time.Duration, name string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", false
	}
	return stdout.String(), true
}

// captureShell runs a command line through the given shell and captures both
// streams. The returned failure is typed; the CaptureResult is always
// well-formed so callers can surface partial output.
func captureShell(ctx context.Context, shell []string, command string, timeout time.Duration) (domain.CaptureResult, error) {
	if timeout <= 0 {
		timeout = domain.DefaultCaptureTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, shell[1:]...), command)
	cmd := exec.CommandContext(ctx, shell[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := domain.CaptureResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		return result, domain.NewFailure(domain.FailureProcessTimeout, "run_capturing", err)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		result.ExitCode = -1
		return result, domain.NewFailure(domain.FailureProcessSpawn, "run_capturing", err)
	}
}

// spawnDetached starts a launcher process without waiting for it, reaping it
// in the background so the child never zombifies. Returns the PID, or an
// error when the binary is missing or exits immediately.
func spawnDetached(name string, args ...string) (int, error) {
	if _, err := exec.LookPath(name); err != nil {
		return 0, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", err)
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return 0, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", err)
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()

	// Launchers that die within the settle window count as failed spawns.
	time.Sleep(settleDelay)
	if !procutil.Alive(pid) {
		return 0, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", errors.New(name+" exited immediately"))
	}
	return pid, nil
}

// settleDelay gives a freshly spawned terminal time to either open or fail.
const settleDelay = 1 * time.Second
