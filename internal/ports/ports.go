// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The application depends only on these
// abstractions; the concrete OS automation tools (osascript, wmctrl, xdotool,
// PowerShell) live behind them in the infrastructure layer.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.hostpilot/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// PlatformAdapter is the uniform contract over one OS family's automation
// surface. It is the only component that shells out. Every call is bounded
// by a timeout; a timeout or non-zero exit is reported as a falsy/empty
// result, never as a raised error, so callers can decide fallback.
type PlatformAdapter interface {
	Platform() domain.Platform

	// ListWindows enumerates currently open windows. A capability gap or
	// tool failure yields an empty slice and a typed *domain.Failure.
	ListWindows(ctx context.Context) ([]domain.WindowRecord, error)

	// ActiveWindow returns the focused window, or nil when undeterminable.
	ActiveWindow(ctx context.Context) (*domain.WindowRecord, error)

	// SwitchTo raises the given window. Best effort.
	SwitchTo(ctx context.Context, win domain.WindowRecord) bool

	// CloseWindow closes the given window. Best effort.
	CloseWindow(ctx context.Context, win domain.WindowRecord) bool

	// SpawnTerminal opens a visible terminal window with the given title.
	SpawnTerminal(ctx context.Context, title string) (domain.SpawnResult, error)

	// RunInTerminal echoes a command into an already-open terminal window.
	// Not supported on every platform; returns false where it is not.
	RunInTerminal(ctx context.Context, handle, command string) bool

	// RunCapturing executes a command headlessly and captures its output.
	// Always available. Timeout failures surface through the result's
	// exit code and the returned typed failure.
	RunCapturing(ctx context.Context, command string, timeout time.Duration) (domain.CaptureResult, error)
}

// WindowRegistry caches window enumeration behind a short TTL.
type WindowRegistry interface {
	GetAllWindows(ctx context.Context, forceRefresh bool) []domain.WindowRecord
	FindByTitle(ctx context.Context, pattern string) (*domain.WindowRecord, error)
	FindByApplication(ctx context.Context, substring string) []domain.WindowRecord
}

// Classifier maps free-text intent to a task category. Implementations must
// be pure: identical input (mod casing) yields an identical category.
type Classifier interface {
	Classify(text string) domain.TaskCategory
}

// TerminalSession owns the lifecycle of the visible terminal process and
// mediates all commands executed through it.
type TerminalSession interface {
	Open(ctx context.Context, title string) bool
	Execute(ctx context.Context, command string, showInTerminal bool) domain.Payload
	Close()
	IsActive() bool
	History() []domain.CommandHistoryEntry
	ClearHistory()
}

// CodeRunner is the generic code-execution collaborator: run this code in
// language L and stream result chunks. Consumed, never implemented, by the
// core dispatch logic.
type CodeRunner interface {
	Run(ctx context.Context, language, code string) ([]domain.Payload, error)
}

// DisplayService is the display collaborator used by GUI-routed dispatches.
type DisplayService interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// ProcessLister is the process-listing collaborator, filterable to running
// processes for the planner's current-applications view.
type ProcessLister interface {
	Processes(ctx context.Context, onlyRunning bool) ([]domain.ProcessInfo, error)
}

// SecurityService evaluates commands against guardrail rules before they
// reach the visible terminal.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// ConfirmationPrompter asks the user to approve commands the guardrail
// grades as confirm. A disabled prompter means no interactive surface is
// attached; callers must treat that as a decline.
type ConfirmationPrompter interface {
	Enabled() bool
	Confirm(level domain.RiskLevel, command string, reasons []string) (bool, error)
}

// HistoryRepository persists dispatch outcomes.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
}

// Notifier delivers best-effort desktop notifications.
type Notifier interface {
	Notify(ctx context.Context, title, message string) bool
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
