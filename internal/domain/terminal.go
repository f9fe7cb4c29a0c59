package domain

import "time"

// SessionState tracks the visible terminal lifecycle.
type SessionState string

const (
	SessionClosed   SessionState = "closed"
	SessionOpening  SessionState = "opening"
	SessionActive   SessionState = "active"
	SessionDegraded SessionState = "degraded"
)

// CommandHistoryEntry records one command mediated by the terminal session.
// Entries are immutable once appended and are never reordered.
type CommandHistoryEntry struct {
	Command  string
	IssuedAt time.Time
	// Visible is false for housekeeping commands (the session banner) that
	// are recorded but not echoed into the terminal window.
	Visible bool
}

// CaptureResult is the raw outcome of a non-visible subprocess capture.
type CaptureResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr, the shape surfaced to callers.
func (r CaptureResult) Combined() string {
	return r.Stdout + r.Stderr
}

// Payload is the uniform result triple every execution path returns.
// Failures are carried in Content, never raised across the boundary.
type Payload struct {
	Type    string
	Format  string
	Content string
}

// ConsolePayload builds the standard console-output payload.
func ConsolePayload(content string) Payload {
	return Payload{Type: "console", Format: "output", Content: content}
}

// SpawnResult reports a terminal launcher attempt.
type SpawnResult struct {
	Success bool
	// Handle names the launcher that won (gnome-terminal, osascript, wt...).
	Handle string
	PID    int
}

// SessionHandle identifies a spawned terminal across process invocations, so
// a later invocation can reattach to a window an earlier one opened. A PID of
// zero means a scripting-bridge spawn with no pollable child process.
type SessionHandle struct {
	Launcher string    `json:"launcher"`
	PID      int       `json:"pid"`
	OpenedAt time.Time `json:"opened_at"`
}
