package platform

import (
	"context"
	"strings"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// linuxAdapter prefers wmctrl for window work and falls back to xdotool
// per-window queries. When neither capability is present the adapter
// degrades to empty results instead of erroring.
type linuxAdapter struct {
	caps domain.CapabilityMap
	// launchers overrides linuxLaunchers when configured.
	launchers []string
	log       ports.Logger
}

func (a *linuxAdapter) Platform() domain.Platform { return domain.PlatformLinux }

func (a *linuxAdapter) ListWindows(ctx context.Context) ([]domain.WindowRecord, error) {
	if a.caps.Has(domain.CapabilityWindowManagement) {
		out, ok := runTool(ctx, domain.ToolTimeout, "wmctrl", "-l")
		if !ok {
			return nil, domain.NewFailure(domain.FailureProcessTimeout, "list_windows", nil)
		}
		return parseWmctrlList(out), nil
	}

	if a.caps.Has(domain.CapabilityAppControl) {
		return a.listViaXdotool(ctx)
	}

	return nil, domain.NewFailure(domain.FailureCapabilityUnavailable, "list_windows", nil)
}

// parseWmctrlList reads `wmctrl -l` output: "<id> <desktop> <host> <title>".
// Short lines are skipped as best-effort partial data.
func parseWmctrlList(output string) []domain.WindowRecord {
	var records []domain.WindowRecord
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		fields := splitColumns(line, 4)
		if len(fields) < 4 {
			continue
		}
		records = append(records, domain.WindowRecord{
			ID:          fields[0],
			Desktop:     fields[1],
			Application: fields[2],
			Title:       fields[3],
			Platform:    domain.PlatformLinux,
		})
	}
	return records
}

// splitColumns splits a line on runs of whitespace into at most n columns,
// keeping internal whitespace of the final column intact.
func splitColumns(line string, n int) []string {
	var cols []string
	rest := strings.TrimSpace(line)
	for len(cols) < n-1 {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			break
		}
		cols = append(cols, rest[:idx])
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	if rest != "" {
		cols = append(cols, rest)
	}
	return cols
}

func (a *linuxAdapter) listViaXdotool(ctx context.Context) ([]domain.WindowRecord, error) {
	out, ok := runTool(ctx, domain.ToolTimeout, "xdotool", "search", "--name", ".*")
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "list_windows", nil)
	}
	var records []domain.WindowRecord
	for _, id := range strings.Fields(out) {
		name, ok := runTool(ctx, domain.QuickQueryTimeout, "xdotool", "getwindowname", id)
		if !ok {
			continue
		}
		records = append(records, domain.WindowRecord{
			ID:          id,
			Title:       strings.TrimSpace(name),
			Application: "Unknown",
			Platform:    domain.PlatformLinux,
		})
	}
	return records, nil
}

func (a *linuxAdapter) ActiveWindow(ctx context.Context) (*domain.WindowRecord, error) {
	if !a.caps.Has(domain.CapabilityAppControl) {
		return nil, domain.NewFailure(domain.FailureCapabilityUnavailable, "active_window", nil)
	}
	out, ok := runTool(ctx, domain.ToolTimeout, "xdotool", "getactivewindow")
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "active_window", nil)
	}
	id := strings.TrimSpace(out)
	name, ok := runTool(ctx, domain.QuickQueryTimeout, "xdotool", "getwindowname", id)
	if !ok {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "active_window", nil)
	}
	return &domain.WindowRecord{
		ID:       id,
		Title:    strings.TrimSpace(name),
		Platform: domain.PlatformLinux,
	}, nil
}

func (a *linuxAdapter) SwitchTo(ctx context.Context, win domain.WindowRecord) bool {
	if win.ID == "" {
		return false
	}
	if a.caps.Has(domain.CapabilityWindowManagement) {
		_, ok := runTool(ctx, domain.ToolTimeout, "wmctrl", "-i", "-a", win.ID)
		return ok
	}
	if a.caps.Has(domain.CapabilityAppControl) {
		_, ok := runTool(ctx, domain.ToolTimeout, "xdotool", "windowactivate", win.ID)
		return ok
	}
	return false
}

func (a *linuxAdapter) CloseWindow(ctx context.Context, win domain.WindowRecord) bool {
	if win.ID == "" || !a.caps.Has(domain.CapabilityWindowManagement) {
		return false
	}
	_, ok := runTool(ctx, domain.ToolTimeout, "wmctrl", "-i", "-c", win.ID)
	return ok
}

// launcher is one visible-terminal candidate.
type launcher struct {
	name      string
	titleFlag string
}

// linuxLaunchers is the platform-ordered candidate list for visible
// terminals. Each candidate takes the window title as its final argument.
var linuxLaunchers = []launcher{
	{"gnome-terminal", "--title"},
	{"konsole", "--title"},
	{"xfce4-terminal", "--title"},
	{"kitty", "--title"},
	{"alacritty", "--title"},
	{"xterm", "-title"},
}

func (a *linuxAdapter) SpawnTerminal(ctx context.Context, title string) (domain.SpawnResult, error) {
	candidates := linuxLaunchers
	if len(a.launchers) > 0 {
		candidates = nil
		for _, name := range a.launchers {
			flag := "--title"
			if name == "xterm" {
				flag = "-title"
			}
			candidates = append(candidates, launcher{name, flag})
		}
	}
	for _, candidate := range candidates {
		pid, err := spawnDetached(candidate.name, candidate.titleFlag, title)
		if err != nil {
			continue
		}
		return domain.SpawnResult{Success: true, Handle: candidate.name, PID: pid}, nil
	}
	return domain.SpawnResult{}, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", nil)
}

// RunInTerminal is not supported on Linux: there is no portable way to write
// into an already-open terminal emulator window.
func (a *linuxAdapter) RunInTerminal(ctx context.Context, handle, command string) bool {
	return false
}

func (a *linuxAdapter) RunCapturing(ctx context.Context, command string, timeout time.Duration) (domain.CaptureResult, error) {
	return captureShell(ctx, []string{"/bin/sh", "-c"}, command, timeout)
}

var _ ports.PlatformAdapter = (*linuxAdapter)(nil)
