package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/hostpilot/internal/application/doctor"
	"github.com/doeshing/hostpilot/internal/domain"
)

// renderPlan prints an action plan in a friendly, ASCII-only format.
func renderPlan(w io.Writer, request string, plan domain.ActionPlan) {
	fmt.Fprintf(w, "Request: %s\n", request)
	fmt.Fprintf(w, "Category: %s\n", plan.Category)
	fmt.Fprintf(w, "Primary Method: %s\n", plan.PrimaryMethod)
	if len(plan.FallbackMethods) > 0 {
		names := make([]string, len(plan.FallbackMethods))
		for i, m := range plan.FallbackMethods {
			names[i] = string(m)
		}
		fmt.Fprintf(w, "Fallbacks: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Complexity: %s\n", plan.EstimatedComplexity)
	var needs []string
	if plan.RequiresTerminal {
		needs = append(needs, "terminal")
	}
	if plan.RequiresGUI {
		needs = append(needs, "gui")
	}
	if len(needs) > 0 {
		fmt.Fprintf(w, "Requires: %s\n", strings.Join(needs, ", "))
	}
	fmt.Fprintln(w, "Actions:")
	for _, action := range plan.Actions {
		fmt.Fprintf(w, "  %d. [%s] %s\n", action.Priority, action.Kind, action.Description)
	}
}

func renderDispatchResult(w io.Writer, result domain.DispatchResult) {
	fmt.Fprintf(w, "Route: %s (request %s)\n", result.Route, result.RequestID)
	if result.Blocked {
		fmt.Fprintln(w, "BLOCKED by guardrail:")
		for _, reason := range result.BlockReasons {
			fmt.Fprintf(w, " - %s\n", reason)
		}
	}
	if result.Payload.Content != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.Payload.Content)
	}
}

func renderWindows(w io.Writer, windows []domain.WindowRecord) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "No windows detected.")
		return
	}
	for _, win := range windows {
		app := win.Application
		if app == "" {
			app = "Unknown"
		}
		fmt.Fprintf(w, "%-12s  %-24s  %s\n", win.ID, app, win.Title)
	}
}

func renderDoctorReport(w io.Writer, report doctor.Report) {
	fmt.Fprintf(w, "Platform: %s\n\n", report.Platform)
	for _, check := range report.Checks {
		fmt.Fprintf(w, "[%-4s] %-32s %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Detail)
	}
}

func renderHistory(w io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No dispatch history.")
		return
	}
	for _, rec := range records {
		state := "ok"
		if rec.Blocked {
			state = "blocked"
		} else if !rec.Success {
			state = "failed"
		}
		command := rec.Command
		if idx := strings.IndexByte(command, '\n'); idx >= 0 {
			command = command[:idx] + " ..."
		}
		fmt.Fprintf(w, "%s  %-8s  %-8s  %6dms  %s\n",
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Route, state, rec.DurationMS, command)
	}
}
