package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Service orchestrates a dispatch end-to-end: route decision, guardrail
// check, execution through the chosen channel, history persistence and
// failure notification. Failures surface as error-content payloads; nothing
// here raises into the caller's loop.
type Service struct {
	Terminal   ports.TerminalSession
	CodeRunner ports.CodeRunner
	Display    ports.DisplayService
	Security   ports.SecurityService
	Prompter   ports.ConfirmationPrompter
	History    ports.HistoryRepository
	Notifier   ports.Notifier
	Logger     ports.Logger

	// NotifyTitle heads failure notifications; empty falls back to "hostpilot".
	NotifyTitle string
}

// Dispatch routes and executes one emitted code block.
func (s *Service) Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
	if s.Terminal == nil || s.CodeRunner == nil || s.Logger == nil {
		return domain.DispatchResult{}, errors.New("dispatch.Service dependencies not satisfied")
	}

	result := domain.DispatchResult{
		RequestID: uuid.NewString(),
		Route:     RouteFor(req.Block),
	}

	s.Logger.Info("dispatching", map[string]interface{}{
		"request_id": result.RequestID,
		"route":      string(result.Route),
		"language":   req.Block.Language,
	})

	start := time.Now()
	switch result.Route {
	case domain.RouteTerminal:
		s.dispatchTerminal(ctx, req, &result)
	case domain.RouteGUI:
		s.dispatchGUI(ctx, req.Block, &result)
	default:
		s.dispatchCode(ctx, req.Block, &result)
	}
	duration := time.Since(start)

	s.record(req.Block, result, duration)
	s.notifyOnFailure(ctx, result)
	return result, nil
}

func (s *Service) dispatchTerminal(ctx context.Context, req domain.DispatchRequest, result *domain.DispatchResult) {
	command := strings.TrimSpace(req.Block.Code)

	if s.Security != nil {
		risk, err := s.Security.Evaluate(command)
		if err == nil {
			switch risk.Action {
			case domain.ActionBlock:
				result.Blocked = true
				result.BlockReasons = risk.Reasons
				result.Payload = domain.ConsolePayload(
					"Command blocked by guardrail: " + strings.Join(risk.Reasons, "; "))
				return
			case domain.ActionConfirm:
				if !s.confirm(risk, command) {
					result.Blocked = true
					result.BlockReasons = risk.Reasons
					result.Payload = domain.ConsolePayload(
						"Command not confirmed: " + strings.Join(risk.Reasons, "; "))
					return
				}
			}
		}
	}

	result.Payload = s.Terminal.Execute(ctx, command, req.ShowInTerminal)
}

// confirm resolves a confirm-graded assessment. Without an interactive
// prompter the command is treated as declined, never silently executed.
func (s *Service) confirm(risk domain.RiskAssessment, command string) bool {
	if s.Prompter == nil || !s.Prompter.Enabled() {
		s.Logger.Warn("confirmation required but no interactive prompt available", map[string]interface{}{
			"level": string(risk.Level),
		})
		return false
	}
	approved, err := s.Prompter.Confirm(risk.Level, command, risk.Reasons)
	if err != nil {
		s.Logger.Warn("confirmation prompt failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return approved
}

// dispatchGUI takes a screenshot for context and then runs the code through
// the generic executor; GUI semantics themselves live in the executed code.
func (s *Service) dispatchGUI(ctx context.Context, block domain.CodeBlock, result *domain.DispatchResult) {
	if s.Display != nil {
		if img, err := s.Display.Screenshot(ctx); err != nil {
			s.Logger.Warn("screenshot failed", map[string]interface{}{"error": err.Error()})
		} else {
			s.Logger.Debug("screenshot captured", map[string]interface{}{"bytes": len(img)})
		}
	}
	s.dispatchCode(ctx, block, result)
}

func (s *Service) dispatchCode(ctx context.Context, block domain.CodeBlock, result *domain.DispatchResult) {
	language := block.Language
	if language == "" {
		language = "shell"
	}
	chunks, err := s.CodeRunner.Run(ctx, language, block.Code)
	if err != nil {
		result.Payload = domain.ConsolePayload(fmt.Sprintf("Execution error: %v", err))
		return
	}
	var content strings.Builder
	for _, chunk := range chunks {
		content.WriteString(chunk.Content)
	}
	result.Payload = domain.ConsolePayload(content.String())
}

func (s *Service) record(block domain.CodeBlock, result domain.DispatchResult, duration time.Duration) {
	if s.History == nil {
		return
	}
	err := s.History.Save(domain.HistoryRecord{
		RequestID:  result.RequestID,
		Timestamp:  time.Now(),
		Route:      string(result.Route),
		Language:   block.Language,
		Command:    block.Code,
		Blocked:    result.Blocked,
		Success:    !result.Blocked && !strings.HasPrefix(result.Payload.Content, "Error"),
		DurationMS: duration.Milliseconds(),
	})
	if err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) notifyOnFailure(ctx context.Context, result domain.DispatchResult) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if result.Blocked || strings.HasPrefix(result.Payload.Content, "Error") {
		title := s.NotifyTitle
		if title == "" {
			title = "hostpilot"
		}
		s.Notifier.Notify(ctx, title, "dispatch "+result.RequestID+" failed on route "+string(result.Route))
	}
}

// SystemContext summarizes the host state for display alongside a plan:
// window summary, working directory and the most recent terminal commands.
func (s *Service) SystemContext(ctx context.Context, summary string) string {
	var parts []string
	if summary != "" {
		parts = append(parts, "Open Windows:\n"+summary)
	}
	if wd, err := os.Getwd(); err == nil {
		parts = append(parts, "Current Directory: "+wd)
	}
	if s.Terminal != nil {
		history := s.Terminal.History()
		if len(history) > 0 {
			start := len(history) - domain.RecentCommandCount
			if start < 0 {
				start = 0
			}
			parts = append(parts, "Recent Commands:")
			for _, entry := range history[start:] {
				parts = append(parts, "  - "+entry.Command)
			}
		}
	}
	return strings.Join(parts, "\n")
}
