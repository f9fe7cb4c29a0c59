package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// windowsAdapter enumerates windows through PowerShell process queries and
// drives switch/close/active-window through user32 interop, since PowerShell
// itself has no cmdlet for foreground-window control.
type windowsAdapter struct {
	caps domain.CapabilityMap
	log  ports.Logger
}

const listWindowsPS = `Get-Process | Where-Object {$_.MainWindowTitle -ne ""} |
Select-Object Id, ProcessName, MainWindowTitle, @{Name="WindowHandle";Expression={$_.MainWindowHandle}} |
ConvertTo-Json`

const activeWindowPS = `Add-Type -TypeDefinition @"
using System;
using System.Runtime.InteropServices;
using System.Text;
public class Win32 {
	[DllImport("user32.dll")]
	public static extern IntPtr GetForegroundWindow();
	[DllImport("user32.dll")]
	public static extern int GetWindowText(IntPtr hWnd, StringBuilder text, int count);
}
"@
$handle = [Win32]::GetForegroundWindow()
$title = New-Object System.Text.StringBuilder 256
[Win32]::GetWindowText($handle, $title, 256)
Write-Output "$handle|$($title.ToString())"`

func (a *windowsAdapter) Platform() domain.Platform { return domain.PlatformWindows }

func (a *windowsAdapter) ListWindows(ctx context.Context) ([]domain.WindowRecord, error) {
	out, ok := runTool(ctx, domain.ScriptTimeout, "powershell", "-Command", listWindowsPS)
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "list_windows", nil)
	}
	records, err := parsePowershellJSON(out)
	if err != nil {
		// Older hosts emit table output instead of JSON.
		return parsePowershellTable(out), nil
	}
	return records, nil
}

type psWindow struct {
	ID              json.Number `json:"Id"`
	ProcessName     string      `json:"ProcessName"`
	MainWindowTitle string      `json:"MainWindowTitle"`
	WindowHandle    json.Number `json:"WindowHandle"`
}

// parsePowershellJSON handles both shapes ConvertTo-Json produces: an array
// for multiple processes and a bare object for a single one.
func parsePowershellJSON(output string) ([]domain.WindowRecord, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, domain.NewFailure(domain.FailureParse, "list_windows", nil)
	}

	var items []psWindow
	if strings.HasPrefix(trimmed, "{") {
		var single psWindow
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return nil, domain.NewFailure(domain.FailureParse, "list_windows", err)
		}
		items = []psWindow{single}
	} else if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, domain.NewFailure(domain.FailureParse, "list_windows", err)
	}

	records := make([]domain.WindowRecord, 0, len(items))
	for _, item := range items {
		records = append(records, domain.WindowRecord{
			ID:          item.ID.String(),
			Handle:      item.WindowHandle.String(),
			Application: item.ProcessName,
			Title:       item.MainWindowTitle,
			Platform:    domain.PlatformWindows,
		})
	}
	return records, nil
}

// parsePowershellTable is the line-oriented fallback: skip the three header
// lines, then "<id> <name> <title>" columns.
func parsePowershellTable(output string) []domain.WindowRecord {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) <= 3 {
		return nil
	}
	var records []domain.WindowRecord
	for _, line := range lines[3:] {
		fields := splitColumns(line, 3)
		if len(fields) < 3 {
			continue
		}
		records = append(records, domain.WindowRecord{
			ID:          fields[0],
			Application: fields[1],
			Title:       fields[2],
			Platform:    domain.PlatformWindows,
		})
	}
	return records
}

func (a *windowsAdapter) ActiveWindow(ctx context.Context) (*domain.WindowRecord, error) {
	out, ok := runTool(ctx, domain.ToolTimeout, "powershell", "-Command", activeWindowPS)
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "active_window", nil)
	}
	handle, title, found := strings.Cut(strings.TrimSpace(out), "|")
	if !found {
		return nil, domain.NewFailure(domain.FailureParse, "active_window", nil)
	}
	return &domain.WindowRecord{
		Handle:   handle,
		Title:    title,
		Platform: domain.PlatformWindows,
	}, nil
}

func (a *windowsAdapter) SwitchTo(ctx context.Context, win domain.WindowRecord) bool {
	if win.Handle == "" {
		return false
	}
	script := fmt.Sprintf(`Add-Type -TypeDefinition @"
using System;
using System.Runtime.InteropServices;
public class Win32 {
	[DllImport("user32.dll")]
	public static extern bool SetForegroundWindow(IntPtr hWnd);
	[DllImport("user32.dll")]
	public static extern bool ShowWindow(IntPtr hWnd, int nCmdShow);
}
"@
[Win32]::ShowWindow(%s, 9)
[Win32]::SetForegroundWindow(%s)`, win.Handle, win.Handle)
	_, ok := runTool(ctx, domain.ToolTimeout, "powershell", "-Command", script)
	return ok
}

func (a *windowsAdapter) CloseWindow(ctx context.Context, win domain.WindowRecord) bool {
	if win.Handle == "" {
		return false
	}
	script := fmt.Sprintf(`Add-Type -TypeDefinition @"
using System;
using System.Runtime.InteropServices;
public class Win32 {
	[DllImport("user32.dll")]
	public static extern bool CloseWindow(IntPtr hWnd);
}
"@
[Win32]::CloseWindow(%s)`, win.Handle)
	_, ok := runTool(ctx, domain.ToolTimeout, "powershell", "-Command", script)
	return ok
}

func (a *windowsAdapter) SpawnTerminal(ctx context.Context, title string) (domain.SpawnResult, error) {
	candidates := [][]string{
		{"wt", "-p", "Command Prompt", "--title", title},
		{"powershell", "-NoExit", "-Command", fmt.Sprintf(`$Host.UI.RawUI.WindowTitle = "%s"`, title)},
		{"cmd", "/k", "title " + title},
	}
	for _, candidate := range candidates {
		pid, err := spawnDetached(candidate[0], candidate[1:]...)
		if err != nil {
			continue
		}
		return domain.SpawnResult{Success: true, Handle: candidate[0], PID: pid}, nil
	}
	return domain.SpawnResult{}, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", nil)
}

// RunInTerminal is not supported on Windows: there is no scripting bridge
// into an already-open console window.
func (a *windowsAdapter) RunInTerminal(ctx context.Context, handle, command string) bool {
	return false
}

func (a *windowsAdapter) RunCapturing(ctx context.Context, command string, timeout time.Duration) (domain.CaptureResult, error) {
	return captureShell(ctx, []string{"cmd", "/C"}, command, timeout)
}

var _ ports.PlatformAdapter = (*windowsAdapter)(nil)
