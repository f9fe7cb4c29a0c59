package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout constants for external process calls. Every shell-out in the
// adapters is bounded by one of these; timeout is treated as failure, not
// as an exception.
const (
	// DefaultCacheDuration is the window snapshot TTL.
	DefaultCacheDuration = 2 * time.Second
	// ProbeTimeout bounds binary existence checks at startup.
	ProbeTimeout = 2 * time.Second
	// QuickQueryTimeout bounds lightweight per-window queries.
	QuickQueryTimeout = 2 * time.Second
	// ToolTimeout bounds single window-tool invocations (list, switch, close).
	ToolTimeout = 5 * time.Second
	// ScriptTimeout bounds heavier scripting-bridge calls (osascript,
	// PowerShell enumeration programs) and terminal spawns.
	ScriptTimeout = 10 * time.Second
	// DefaultCaptureTimeout bounds command output capture.
	DefaultCaptureTimeout = 30 * time.Second
	// TerminateWait is how long close() waits before force-killing.
	TerminateWait = 1 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display.
	DefaultHistoryLimit = 20
	// RecentCommandCount is how many history commands the system-context
	// summary includes.
	RecentCommandCount = 3
)
