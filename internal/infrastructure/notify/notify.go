// Package notify delivers best-effort desktop notifications through the
// platform's native mechanism: notify-send on Linux, osascript on macOS,
// a toast via PowerShell on Windows.
package notify

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Desktop implements ports.Notifier. Disabled when the notification
// capability is absent or the config turns it off.
type Desktop struct {
	platform domain.Platform
	enabled  bool
}

// New builds a notifier; enabled combines the config gate with the probed
// notification capability.
func New(platform domain.Platform, caps domain.CapabilityMap, configEnabled bool) *Desktop {
	return &Desktop{
		platform: platform,
		enabled:  configEnabled && caps.Has(domain.CapabilityNotification),
	}
}

// Enabled reports whether notifications can be delivered.
func (d *Desktop) Enabled() bool { return d.enabled }

// Notify shows a desktop notification. Best effort; failures are swallowed.
func (d *Desktop) Notify(ctx context.Context, title, message string) bool {
	if !d.enabled {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, domain.ToolTimeout)
	defer cancel()

	var cmd *exec.Cmd
	switch d.platform {
	case domain.PlatformLinux:
		cmd = exec.CommandContext(ctx, "notify-send", title, message)
	case domain.PlatformMacOS:
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case domain.PlatformWindows:
		script := fmt.Sprintf(`[System.Reflection.Assembly]::LoadWithPartialName("System.Windows.Forms") | Out-Null
$tip = New-Object System.Windows.Forms.NotifyIcon
$tip.Icon = [System.Drawing.SystemIcons]::Information
$tip.Visible = $true
$tip.ShowBalloonTip(5000, "%s", "%s", [System.Windows.Forms.ToolTipIcon]::Info)`, title, message)
		cmd = exec.CommandContext(ctx, "powershell", "-Command", script)
	default:
		return false
	}
	return cmd.Run() == nil
}

var _ ports.Notifier = (*Desktop)(nil)
