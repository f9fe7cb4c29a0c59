//go:build !windows

// Package procutil offers minimal PID-level process control shared by the
// platform adapters and the terminal session manager.
package procutil

import (
	"os"
	"syscall"
)

// Alive reports whether the process with the given PID still exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}

// Terminate asks the process to exit gracefully.
func Terminate(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, syscall.SIGTERM) == nil
}

// Kill forcibly ends the process.
func Kill(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Kill() == nil
}
