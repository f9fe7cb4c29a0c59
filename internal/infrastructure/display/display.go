// Package display implements the screenshot collaborator with the
// platform's native capture tool.
package display

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Capture implements ports.DisplayService.
type Capture struct {
	platform domain.Platform
}

// New builds a capture service for the given platform.
func New(platform domain.Platform) *Capture {
	return &Capture{platform: platform}
}

// Screenshot writes a capture to a temp file and returns its bytes.
func (c *Capture) Screenshot(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, domain.ScriptTimeout)
	defer cancel()

	path := filepath.Join(os.TempDir(), "hostpilot-screenshot.png")
	defer os.Remove(path)

	var cmd *exec.Cmd
	switch c.platform {
	case domain.PlatformMacOS:
		cmd = exec.CommandContext(ctx, "screencapture", "-x", path)
	case domain.PlatformLinux:
		if _, err := exec.LookPath("import"); err == nil {
			cmd = exec.CommandContext(ctx, "import", "-window", "root", path)
		} else {
			cmd = exec.CommandContext(ctx, "gnome-screenshot", "-f", path)
		}
	case domain.PlatformWindows:
		script := `Add-Type -AssemblyName System.Windows.Forms
$bounds = [System.Windows.Forms.Screen]::PrimaryScreen.Bounds
$bmp = New-Object System.Drawing.Bitmap $bounds.Width, $bounds.Height
$g = [System.Drawing.Graphics]::FromImage($bmp)
$g.CopyFromScreen($bounds.Location, [System.Drawing.Point]::Empty, $bounds.Size)
$bmp.Save("` + path + `")`
		cmd = exec.CommandContext(ctx, "powershell", "-Command", script)
	default:
		return nil, domain.NewFailure(domain.FailurePlatformUnsupported, "screenshot", nil)
	}

	if err := cmd.Run(); err != nil {
		return nil, domain.NewFailure(domain.FailureProcessSpawn, "screenshot", err)
	}
	return os.ReadFile(path)
}

var _ ports.DisplayService = (*Capture)(nil)
