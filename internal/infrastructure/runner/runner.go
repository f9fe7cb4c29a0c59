// Package runner is a thin local implementation of the generic
// code-execution collaborator. It covers the language tags the dispatch
// layer actually emits; anything richer belongs to an external executor.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Local implements ports.CodeRunner by shelling out per language.
type Local struct {
	timeout time.Duration
}

// New builds a local runner; a non-positive timeout uses the capture default.
func New(timeout time.Duration) *Local {
	if timeout <= 0 {
		timeout = domain.DefaultCaptureTimeout
	}
	return &Local{timeout: timeout}
}

// Run executes code in the named language and returns the output chunks.
func (r *Local) Run(ctx context.Context, language, code string) ([]domain.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cmd *exec.Cmd
	switch language {
	case "shell", "bash", "sh", "zsh", "fish", "":
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", code)
	case "python", "python3":
		cmd = exec.CommandContext(ctx, "python3", "-c", code)
	case "go":
		file, err := writeTemp("snippet-*.go", code)
		if err != nil {
			return nil, err
		}
		defer os.Remove(file)
		cmd = exec.CommandContext(ctx, "go", "run", file)
	default:
		return []domain.Payload{
			domain.ConsolePayload(fmt.Sprintf("`%s` disabled or not supported.", language)),
		}, nil
	}

	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return []domain.Payload{
			domain.ConsolePayload(fmt.Sprintf("Execution error: %v", err)),
		}, nil
	}
	return []domain.Payload{domain.ConsolePayload(string(out))}, nil
}

func writeTemp(pattern, content string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return filepath.Clean(file.Name()), nil
}

var _ ports.CodeRunner = (*Local)(nil)
