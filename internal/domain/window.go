// Package domain defines core entities and value objects for hostpilot.
//
// The domain layer is independent of infrastructure concerns: records here
// describe windows, plans, sessions and capabilities without knowing which
// OS tool produced them.
package domain

import "time"

// Platform identifies the OS family an adapter variant targets.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// WindowRecord is a snapshot of one OS window at enumeration time.
// It is never mutated after creation; a record handed to a caller is a copy,
// so callers cannot corrupt the registry's cached snapshot.
type WindowRecord struct {
	ID          string
	Title       string
	Application string
	Platform    Platform
	// Desktop is the workspace number reported by wmctrl; empty elsewhere.
	Desktop string
	// Handle is the native window handle on Windows; empty elsewhere.
	Handle string
}

// WindowSnapshot is the registry's cached enumeration result. Exactly one
// snapshot is live per registry; a refresh replaces it atomically.
type WindowSnapshot struct {
	Records    []WindowRecord
	CapturedAt time.Time
}

// Fresh reports whether the snapshot is still inside the cache TTL at now.
func (s WindowSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return !s.CapturedAt.IsZero() && now.Sub(s.CapturedAt) < ttl
}
