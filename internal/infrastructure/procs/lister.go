// Package procs implements the process-listing collaborator over ps on
// Unix-likes and PowerShell on Windows.
package procs

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Lister implements ports.ProcessLister.
type Lister struct {
	platform domain.Platform
}

// New builds a lister for the given platform.
func New(platform domain.Platform) *Lister {
	return &Lister{platform: platform}
}

// Processes lists host processes, optionally filtered to running state.
func (l *Lister) Processes(ctx context.Context, onlyRunning bool) ([]domain.ProcessInfo, error) {
	var out string
	var err error
	if l.platform == domain.PlatformWindows {
		out, err = l.run(ctx, "powershell", "-Command", "Get-Process | Select-Object Id, ProcessName | Format-Table -HideTableHeaders")
	} else {
		out, err = l.run(ctx, "ps", "-eo", "pid=,stat=,comm=")
	}
	if err != nil {
		return nil, domain.NewFailure(domain.FailureProcessTimeout, "list_processes", err)
	}

	var procs []domain.ProcessInfo
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		info, ok := l.parseLine(line)
		if !ok {
			continue
		}
		if onlyRunning && info.Status != domain.ProcessStatusRunning {
			continue
		}
		procs = append(procs, info)
	}
	return procs, nil
}

func (l *Lister) parseLine(line string) (domain.ProcessInfo, bool) {
	fields := strings.Fields(line)
	if l.platform == domain.PlatformWindows {
		if len(fields) < 2 {
			return domain.ProcessInfo{}, false
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			return domain.ProcessInfo{}, false
		}
		// Get-Process reports live processes only.
		return domain.ProcessInfo{PID: pid, Name: fields[1], Status: domain.ProcessStatusRunning}, true
	}

	if len(fields) < 3 {
		return domain.ProcessInfo{}, false
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.ProcessInfo{}, false
	}
	return domain.ProcessInfo{
		PID:    pid,
		Name:   strings.Join(fields[2:], " "),
		Status: statusFromStat(fields[1]),
	}, true
}

// statusFromStat maps the ps STAT column's leading letter onto the coarse
// status vocabulary the planner filters on.
func statusFromStat(stat string) string {
	if stat == "" {
		return "unknown"
	}
	switch stat[0] {
	case 'R':
		return domain.ProcessStatusRunning
	case 'S':
		return "sleeping"
	case 'D':
		return "disk-sleep"
	case 'T':
		return "stopped"
	case 'Z':
		return "zombie"
	case 'I':
		return "idle"
	default:
		return "unknown"
	}
}

func (l *Lister) run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, domain.ToolTimeout)
	defer cancel()
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

var _ ports.ProcessLister = (*Lister)(nil)
