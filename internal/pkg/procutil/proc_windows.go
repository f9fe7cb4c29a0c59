//go:build windows

package procutil

import "os"

// Alive reports whether the process with the given PID still exists.
// FindProcess opens a real handle on Windows, so an error means gone.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer proc.Release()
	return true
}

// Terminate ends the process; Windows has no graceful TERM signal for
// arbitrary processes, so this kills outright.
func Terminate(pid int) bool {
	return Kill(pid)
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
