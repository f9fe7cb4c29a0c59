package platform

import (
	"context"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// unsupportedAdapter serves OS families outside the three known ones. Every
// platform-specific operation returns its no-op failure value; plain
// subprocess capture still works through /bin/sh.
type unsupportedAdapter struct{}

func (a *unsupportedAdapter) Platform() domain.Platform { return domain.PlatformUnknown }

func (a *unsupportedAdapter) ListWindows(context.Context) ([]domain.WindowRecord, error) {
	return nil, domain.NewFailure(domain.FailurePlatformUnsupported, "list_windows", nil)
}

func (a *unsupportedAdapter) ActiveWindow(context.Context) (*domain.WindowRecord, error) {
	return nil, domain.NewFailure(domain.FailurePlatformUnsupported, "active_window", nil)
}

func (a *unsupportedAdapter) SwitchTo(context.Context, domain.WindowRecord) bool { return false }

func (a *unsupportedAdapter) CloseWindow(context.Context, domain.WindowRecord) bool { return false }

func (a *unsupportedAdapter) SpawnTerminal(context.Context, string) (domain.SpawnResult, error) {
	return domain.SpawnResult{}, domain.NewFailure(domain.FailurePlatformUnsupported, "spawn_terminal", nil)
}

func (a *unsupportedAdapter) RunInTerminal(context.Context, string, string) bool { return false }

func (a *unsupportedAdapter) RunCapturing(ctx context.Context, command string, timeout time.Duration) (domain.CaptureResult, error) {
	return captureShell(ctx, []string{"/bin/sh", "-c"}, command, timeout)
}

var _ ports.PlatformAdapter = (*unsupportedAdapter)(nil)
