// Package probe determines which automation primitives are available on the
// current host. It runs once at startup; the resulting CapabilityMap is
// immutable for the process lifetime.
package probe

import (
	"context"
	"errors"
	"os/exec"
	"runtime"

	"github.com/doeshing/hostpilot/internal/domain"
)

// BinaryChecker reports whether a named binary is usable. Swappable in tests.
type BinaryChecker func(ctx context.Context, name string) bool

// Probe detects host capabilities.
type Probe struct {
	platform domain.Platform
	check    BinaryChecker
}

// New builds a probe for the current OS.
func New() *Probe {
	return &Probe{platform: DetectPlatform(), check: binaryUsable}
}

// NewForPlatform builds a probe with an explicit platform and checker.
func NewForPlatform(platform domain.Platform, check BinaryChecker) *Probe {
	if check == nil {
		check = binaryUsable
	}
	return &Probe{platform: platform, check: check}
}

// Platform returns the detected OS family.
func (p *Probe) Platform() domain.Platform { return p.platform }

// Detect builds the capability map. A failed probe records false; Detect
// never returns an error.
func (p *Probe) Detect(ctx context.Context) domain.CapabilityMap {
	caps := domain.CapabilityMap{
		domain.CapabilityFileOperations:    true,
		domain.CapabilityNetworkOperations: true,
		domain.CapabilityProcessManagement: true,
		domain.CapabilitySystemInfo:        true,
		domain.CapabilityPackageManagement: true,
		domain.CapabilityTextProcessing:    true,
	}

	switch p.platform {
	case domain.PlatformMacOS, domain.PlatformWindows:
		// osascript / PowerShell ship with the OS.
		caps[domain.CapabilityAppControl] = true
		caps[domain.CapabilityWindowManagement] = true
		caps[domain.CapabilityNotification] = true
	case domain.PlatformLinux:
		wmctrl := p.check(ctx, "wmctrl")
		xdotool := p.check(ctx, "xdotool")
		caps[domain.CapabilityAppControl] = wmctrl || xdotool
		caps[domain.CapabilityWindowManagement] = wmctrl
		caps[domain.CapabilityNotification] = p.check(ctx, "notify-send")
	default:
		caps[domain.CapabilityAppControl] = false
		caps[domain.CapabilityWindowManagement] = false
		caps[domain.CapabilityNotification] = false
	}

	return caps
}

// DetectPlatform maps runtime.GOOS onto the adapter platform enum.
func DetectPlatform() domain.Platform {
	switch runtime.GOOS {
	case "darwin":
		return domain.PlatformMacOS
	case "linux":
		return domain.PlatformLinux
	case "windows":
		return domain.PlatformWindows
	default:
		return domain.PlatformUnknown
	}
}

// binaryUsable spawns the candidate with a no-op flag under the probe
// timeout. Only absence or timeout mean unavailable: tools like wmctrl
// have no --version flag and exit non-zero, yet are perfectly usable, so
// any run that completes counts as available.
func binaryUsable(ctx context.Context, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, domain.ProbeTimeout)
	defer cancel()

	err := exec.CommandContext(ctx, name, "--version").Run()
	if err == nil {
		return true
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return false
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
