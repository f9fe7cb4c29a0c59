// Package doctor runs environment diagnostics: platform detection, probed
// capabilities, launcher availability, and config state.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/doeshing/hostpilot/internal/domain"
)

// Status grades one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is a single diagnostic result.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report is the full diagnostic output.
type Report struct {
	Platform domain.Platform
	Checks   []Check
}

// Healthy reports whether no check failed outright.
func (r Report) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Service gathers diagnostics from the probed environment.
type Service struct {
	platform   domain.Platform
	caps       domain.CapabilityMap
	cfg        domain.Config
	configPath string
}

// New builds a doctor service over the already-probed environment.
func New(platform domain.Platform, caps domain.CapabilityMap, cfg domain.Config, configPath string) *Service {
	return &Service{platform: platform, caps: caps, cfg: cfg, configPath: configPath}
}

// Run executes every check and assembles the report.
func (s *Service) Run(ctx context.Context) Report {
	report := Report{Platform: s.platform}
	report.Checks = append(report.Checks, s.checkPlatform())
	report.Checks = append(report.Checks, s.checkCapabilities()...)
	report.Checks = append(report.Checks, s.checkLaunchers(ctx))
	report.Checks = append(report.Checks, s.checkConfig())
	report.Checks = append(report.Checks, s.checkGuardrail())
	return report
}

func (s *Service) checkPlatform() Check {
	if s.platform == domain.PlatformUnknown {
		return Check{Name: "platform", Status: StatusFail, Detail: "unrecognized operating system; window and terminal control unavailable"}
	}
	return Check{Name: "platform", Status: StatusOK, Detail: string(s.platform)}
}

func (s *Service) checkCapabilities() []Check {
	names := make([]string, 0, len(s.caps))
	for name := range s.caps {
		names = append(names, name)
	}
	sort.Strings(names)

	var checks []Check
	for _, name := range names {
		status := StatusOK
		detail := "available"
		if !s.caps[name] {
			status = StatusWarn
			detail = "unavailable; dependent operations degrade to fallbacks"
		}
		checks = append(checks, Check{Name: "capability:" + name, Status: status, Detail: detail})
	}
	return checks
}

func (s *Service) checkLaunchers(ctx context.Context) Check {
	candidates := s.cfg.Terminal.Launchers
	if len(candidates) == 0 {
		switch s.platform {
		case domain.PlatformLinux:
			candidates = []string{"gnome-terminal", "konsole", "xfce4-terminal", "kitty", "alacritty", "xterm"}
		case domain.PlatformMacOS:
			candidates = []string{"osascript"}
		case domain.PlatformWindows:
			candidates = []string{"wt", "powershell", "cmd"}
		}
	}

	var found []string
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return Check{Name: "terminal-launchers", Status: StatusFail, Detail: "no terminal launcher found in PATH; visible sessions cannot open"}
	}
	return Check{
		Name:   "terminal-launchers",
		Status: StatusOK,
		Detail: fmt.Sprintf("%d of %d available: %s", len(found), len(candidates), strings.Join(found, ", ")),
	}
}

func (s *Service) checkConfig() Check {
	if s.configPath == "" {
		return Check{Name: "config", Status: StatusWarn, Detail: "running on built-in defaults"}
	}
	if _, err := os.Stat(s.configPath); err != nil {
		return Check{Name: "config", Status: StatusWarn, Detail: fmt.Sprintf("%s not readable; using defaults", s.configPath)}
	}
	return Check{Name: "config", Status: StatusOK, Detail: s.configPath}
}

func (s *Service) checkGuardrail() Check {
	if !s.cfg.Security.Enabled {
		return Check{Name: "guardrail", Status: StatusWarn, Detail: "disabled; terminal commands run unchecked"}
	}
	return Check{Name: "guardrail", Status: StatusOK, Detail: "enabled, rules: " + s.cfg.Security.RulesFile}
}
