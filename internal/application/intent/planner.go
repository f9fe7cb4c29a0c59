package intent

import (
	"context"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Planner maps a task category plus live capability and platform data to an
// ActionPlan. The mapping is deterministic and side-effect free: one fixed
// rule per category, no network or model state consulted.
type Planner struct {
	platform domain.Platform
	caps     domain.CapabilityMap
	procs    ports.ProcessLister
	registry ports.WindowRegistry
}

// NewPlanner builds a planner. procs and registry back the convenience
// reads used for plan explanation text; either may be nil.
func NewPlanner(platform domain.Platform, caps domain.CapabilityMap, procs ports.ProcessLister, registry ports.WindowRegistry) *Planner {
	return &Planner{platform: platform, caps: caps, procs: procs, registry: registry}
}

// Plan builds a fresh ActionPlan for the category.
func (p *Planner) Plan(category domain.TaskCategory) domain.ActionPlan {
	switch category {
	case domain.CategoryFileOperation:
		return domain.ActionPlan{
			Category:        category,
			PrimaryMethod:   domain.MethodTerminal,
			FallbackMethods: []domain.Method{domain.MethodGUI, domain.MethodCode},
			Actions: []domain.PlannedAction{
				{Priority: 1, Kind: "terminal_command", Description: "Use shell commands for file operations"},
				{Priority: 2, Kind: "gui_interaction", Description: "Use file manager if terminal fails"},
			},
			RequiresTerminal:    true,
			EstimatedComplexity: domain.ComplexityLow,
		}
	case domain.CategoryAppControl:
		return p.planAppControl()
	case domain.CategoryWebBrowsing:
		return domain.ActionPlan{
			Category:        category,
			PrimaryMethod:   domain.MethodGUI,
			FallbackMethods: []domain.Method{domain.MethodTerminal, domain.MethodCode},
			Actions: []domain.PlannedAction{
				{Priority: 1, Kind: "browser_detection", Description: "Detect open browsers and tabs"},
				{Priority: 2, Kind: "navigation", Description: "Navigate to URL or search"},
			},
			RequiresGUI:         true,
			EstimatedComplexity: domain.ComplexityMedium,
		}
	case domain.CategorySystemInfo:
		return domain.ActionPlan{
			Category:        category,
			PrimaryMethod:   domain.MethodTerminal,
			FallbackMethods: []domain.Method{domain.MethodCode},
			Actions: []domain.PlannedAction{
				{Priority: 1, Kind: "system_query", Description: "Use system commands to gather information"},
			},
			RequiresTerminal:    true,
			EstimatedComplexity: domain.ComplexityLow,
		}
	case domain.CategoryTextProcessing:
		return domain.ActionPlan{
			Category:        category,
			PrimaryMethod:   domain.MethodTerminal,
			FallbackMethods: []domain.Method{domain.MethodGUI, domain.MethodCode},
			Actions: []domain.PlannedAction{
				{Priority: 1, Kind: "text_command", Description: "Use command-line text tools"},
			},
			RequiresTerminal:    true,
			EstimatedComplexity: domain.ComplexityLow,
		}
	default:
		return domain.ActionPlan{
			Category:        domain.CategoryGeneral,
			PrimaryMethod:   domain.MethodAnalysis,
			FallbackMethods: []domain.Method{domain.MethodTerminal, domain.MethodGUI, domain.MethodCode},
			Actions: []domain.PlannedAction{
				{Priority: 1, Kind: "task_analysis", Description: "Analyze task and break it down"},
			},
			EstimatedComplexity: domain.ComplexityHigh,
		}
	}
}

// planAppControl picks terminal when the platform's scripting tools can
// drive applications (osascript on macOS, wmctrl/xdotool on Linux), GUI
// otherwise; the loser of that choice leads the fallback chain.
func (p *Planner) planAppControl() domain.ActionPlan {
	primary := domain.MethodGUI
	if (p.platform == domain.PlatformMacOS || p.platform == domain.PlatformLinux) &&
		p.caps.Has(domain.CapabilityAppControl) {
		primary = domain.MethodTerminal
	}

	fallbacks := []domain.Method{domain.MethodGUI, domain.MethodCode}
	if primary == domain.MethodGUI {
		fallbacks = []domain.Method{domain.MethodTerminal, domain.MethodCode}
	}

	return domain.ActionPlan{
		Category:        domain.CategoryAppControl,
		PrimaryMethod:   primary,
		FallbackMethods: fallbacks,
		Actions: []domain.PlannedAction{
			{Priority: 1, Kind: "app_detection", Description: "Detect currently running applications"},
			{Priority: 2, Kind: "window_management", Description: "Switch/control application windows"},
		},
		RequiresTerminal:    primary == domain.MethodTerminal,
		RequiresGUI:         primary == domain.MethodGUI,
		EstimatedComplexity: domain.ComplexityMedium,
	}
}

// CurrentApplications lists running processes for plan explanation text.
func (p *Planner) CurrentApplications(ctx context.Context) []domain.ProcessInfo {
	if p.procs == nil {
		return nil
	}
	procs, err := p.procs.Processes(ctx, true)
	if err != nil {
		return nil
	}
	return procs
}

// WindowList delegates to the window registry.
func (p *Planner) WindowList(ctx context.Context) []domain.WindowRecord {
	if p.registry == nil {
		return nil
	}
	return p.registry.GetAllWindows(ctx, false)
}
