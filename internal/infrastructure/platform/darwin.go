package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// darwinAdapter drives macOS through the osascript scripting bridge.
// App switch/close/activate target the application by name, not by window
// handle, which is how AppleScript addresses windows.
type darwinAdapter struct {
	caps domain.CapabilityMap
	log  ports.Logger
}

// recordSep separates application from window title in the enumeration
// script output, chosen so the nesting survives arbitrary titles.
const recordSep = "|||"

// listWindowsScript walks every visible application process and emits one
// "app|||title" line per window, preserving the application→window nesting.
const listWindowsScript = `
set output to ""
tell application "System Events"
	repeat with theApp in (every application process whose visible is true)
		try
			set appName to name of theApp
			repeat with theWindow in (every window of theApp)
				try
					set output to output & appName & "|||" & (title of theWindow) & linefeed
				end try
			end repeat
		end try
	end repeat
end tell
return output
`

const activeWindowScript = `
tell application "System Events"
	set frontApp to name of first application process whose frontmost is true
	tell process frontApp
		set frontWindow to title of front window
	end tell
	return frontApp & "|||" & frontWindow
end tell
`

func (a *darwinAdapter) Platform() domain.Platform { return domain.PlatformMacOS }

func (a *darwinAdapter) ListWindows(ctx context.Context) ([]domain.WindowRecord, error) {
	out, ok := runTool(ctx, domain.ScriptTimeout, "osascript", "-e", listWindowsScript)
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "list_windows", nil)
	}
	return parseDarwinWindows(out), nil
}

// parseDarwinWindows reads "app|||title" lines. Lines missing the separator
// are kept as best-effort partial records rather than discarded.
func parseDarwinWindows(output string) []domain.WindowRecord {
	var records []domain.WindowRecord
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		record := domain.WindowRecord{
			ID:       strconv.Itoa(len(records)),
			Platform: domain.PlatformMacOS,
		}
		if app, title, found := strings.Cut(line, recordSep); found {
			record.Application = app
			record.Title = title
		} else {
			record.Application = "Unknown"
			record.Title = line
		}
		records = append(records, record)
	}
	return records
}

func (a *darwinAdapter) ActiveWindow(ctx context.Context) (*domain.WindowRecord, error) {
	out, ok := runTool(ctx, domain.ToolTimeout, "osascript", "-e", activeWindowScript)
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "active_window", nil)
	}
	app, title, found := strings.Cut(strings.TrimSpace(out), recordSep)
	if !found {
		return nil, domain.NewFailure(domain.FailureParse, "active_window", nil)
	}
	return &domain.WindowRecord{
		Application: app,
		Title:       title,
		Platform:    domain.PlatformMacOS,
	}, nil
}

func (a *darwinAdapter) SwitchTo(ctx context.Context, win domain.WindowRecord) bool {
	if win.Application == "" {
		return false
	}
	script := fmt.Sprintf("tell application %q to activate", win.Application)
	_, ok := runTool(ctx, domain.ToolTimeout, "osascript", "-e", script)
	return ok
}

func (a *darwinAdapter) CloseWindow(ctx context.Context, win domain.WindowRecord) bool {
	if win.Application == "" {
		return false
	}
	script := fmt.Sprintf("tell application %q to close front window", win.Application)
	_, ok := runTool(ctx, domain.ToolTimeout, "osascript", "-e", script)
	return ok
}

// itermSpawnScript opens an iTerm window and names its session after the
// requested title.
func itermSpawnScript(title string) string {
	return fmt.Sprintf(`
tell application "iTerm"
	create window with default profile
	tell current session of current window
		set name to %q
	end tell
end tell
`, title)
}

// terminalSpawnScript opens a Terminal.app window with a custom title.
func terminalSpawnScript(title string) string {
	return fmt.Sprintf(`
tell application "Terminal"
	do script ""
	set custom title of front window to %q
end tell
`, title)
}

func (a *darwinAdapter) SpawnTerminal(ctx context.Context, title string) (domain.SpawnResult, error) {
	// iTerm first, Terminal.app as fallback. Neither hands back a child
	// process, so the session manager cannot poll liveness on macOS.
	if _, ok := runTool(ctx, domain.ScriptTimeout, "osascript", "-e", itermSpawnScript(title)); ok {
		return domain.SpawnResult{Success: true, Handle: "iterm"}, nil
	}
	if _, ok := runTool(ctx, domain.ScriptTimeout, "osascript", "-e", terminalSpawnScript(title)); ok {
		return domain.SpawnResult{Success: true, Handle: "terminal"}, nil
	}
	return domain.SpawnResult{}, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", nil)
}

func (a *darwinAdapter) RunInTerminal(ctx context.Context, handle, command string) bool {
	app := "Terminal"
	if handle == "iterm" {
		script := fmt.Sprintf(`
tell application "iTerm"
	tell current session of current window
		write text %q
	end tell
end tell
`, command)
		_, ok := runTool(ctx, domain.ToolTimeout, "osascript", "-e", script)
		return ok
	}
	script := fmt.Sprintf("tell application %q to do script %q in front window", app, command)
	_, ok := runTool(ctx, domain.ToolTimeout, "osascript", "-e", script)
	return ok
}

func (a *darwinAdapter) RunCapturing(ctx context.Context, command string, timeout time.Duration) (domain.CaptureResult, error) {
	return captureShell(ctx, []string{"/bin/sh", "-c"}, command, timeout)
}

var _ ports.PlatformAdapter = (*darwinAdapter)(nil)
