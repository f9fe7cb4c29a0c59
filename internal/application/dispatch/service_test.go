package dispatch

import (
	"context"
	"strings"
	"testing"

	"github.com/doeshing/hostpilot/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type stubTerminal struct {
	executed []string
	shown    []bool
	output   string
}

func (s *stubTerminal) Open(context.Context, string) bool { return true }
func (s *stubTerminal) Execute(_ context.Context, command string, show bool) domain.Payload {
	s.executed = append(s.executed, command)
	s.shown = append(s.shown, show)
	return domain.ConsolePayload(s.output)
}
func (s *stubTerminal) Close()                                {}
func (s *stubTerminal) IsActive() bool                        { return true }
func (s *stubTerminal) History() []domain.CommandHistoryEntry { return nil }
func (s *stubTerminal) ClearHistory()                         {}

type stubRunner struct {
	languages []string
	chunks    []domain.Payload
}

func (s *stubRunner) Run(_ context.Context, language, code string) ([]domain.Payload, error) {
	s.languages = append(s.languages, language)
	return s.chunks, nil
}

type stubSecurity struct {
	assessment domain.RiskAssessment
}

func (s *stubSecurity) Evaluate(string) (domain.RiskAssessment, error) {
	return s.assessment, nil
}

type stubHistory struct {
	saved []domain.HistoryRecord
}

func (s *stubHistory) Save(record domain.HistoryRecord) error {
	s.saved = append(s.saved, record)
	return nil
}
func (s *stubHistory) Records(int, string) ([]domain.HistoryRecord, error) { return s.saved, nil }
func (s *stubHistory) Clear() error                                        { s.saved = nil; return nil }

type stubNotifier struct {
	notified []string
}

func (s *stubNotifier) Notify(_ context.Context, _, message string) bool {
	s.notified = append(s.notified, message)
	return true
}
func (s *stubNotifier) Enabled() bool { return true }

func newService(term *stubTerminal, run *stubRunner, sec *stubSecurity, hist *stubHistory, not *stubNotifier) *Service {
	svc := &Service{
		Terminal:   term,
		CodeRunner: run,
		Logger:     nopLogger{},
	}
	if sec != nil {
		svc.Security = sec
	}
	if hist != nil {
		svc.History = hist
	}
	if not != nil {
		svc.Notifier = not
	}
	return svc
}

func TestDispatchTerminalRoute(t *testing.T) {
	term := &stubTerminal{output: "ok"}
	hist := &stubHistory{}
	svc := newService(term, &stubRunner{}, nil, hist, nil)

	req := domain.DispatchRequest{
		Block:          domain.CodeBlock{Language: "bash", Code: "ls -la"},
		ShowInTerminal: true,
	}
	result, err := svc.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Route != domain.RouteTerminal {
		t.Fatalf("route = %s, want terminal", result.Route)
	}
	if result.RequestID == "" {
		t.Fatal("request id missing")
	}
	if len(term.executed) != 1 || term.executed[0] != "ls -la" {
		t.Fatalf("terminal saw %v", term.executed)
	}
	if !term.shown[0] {
		t.Fatal("show-in-terminal flag not forwarded")
	}
	if len(hist.saved) != 1 || !hist.saved[0].Success {
		t.Fatalf("history record wrong: %+v", hist.saved)
	}
}

func TestDispatchBlockedByGuardrail(t *testing.T) {
	term := &stubTerminal{output: "should never run"}
	sec := &stubSecurity{assessment: domain.RiskAssessment{
		Level:   domain.RiskCritical,
		Action:  domain.ActionBlock,
		Reasons: []string{"recursive force delete of filesystem root"},
	}}
	hist := &stubHistory{}
	not := &stubNotifier{}
	svc := newService(term, &stubRunner{}, sec, hist, not)

	req := domain.DispatchRequest{Block: domain.CodeBlock{Language: "shell", Code: "rm -rf /"}}
	result, err := svc.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !result.Blocked {
		t.Fatal("expected blocked result")
	}
	if len(term.executed) != 0 {
		t.Fatal("blocked command must not reach the terminal")
	}
	if !strings.Contains(result.Payload.Content, "blocked") {
		t.Fatalf("payload = %q", result.Payload.Content)
	}
	if len(hist.saved) != 1 || !hist.saved[0].Blocked || hist.saved[0].Success {
		t.Fatalf("history record wrong: %+v", hist.saved)
	}
	if len(not.notified) != 1 {
		t.Fatal("blocked dispatch should notify")
	}
}

type stubPrompter struct {
	enabled bool
	approve bool
	asked   []string
}

func (s *stubPrompter) Enabled() bool { return s.enabled }
func (s *stubPrompter) Confirm(_ domain.RiskLevel, command string, _ []string) (bool, error) {
	s.asked = append(s.asked, command)
	return s.approve, nil
}

func TestDispatchConfirmApprovedExecutes(t *testing.T) {
	term := &stubTerminal{output: "shutting down"}
	sec := &stubSecurity{assessment: domain.RiskAssessment{
		Level:   domain.RiskMedium,
		Action:  domain.ActionConfirm,
		Reasons: []string{"system shutdown or reboot"},
	}}
	prompter := &stubPrompter{enabled: true, approve: true}
	svc := newService(term, &stubRunner{}, sec, nil, nil)
	svc.Prompter = prompter

	req := domain.DispatchRequest{Block: domain.CodeBlock{Language: "shell", Code: "shutdown -h now"}}
	result, err := svc.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Blocked {
		t.Fatal("approved command must not be blocked")
	}
	if len(prompter.asked) != 1 || prompter.asked[0] != "shutdown -h now" {
		t.Fatalf("prompter saw %v", prompter.asked)
	}
	if len(term.executed) != 1 {
		t.Fatal("approved command must reach the terminal")
	}
}

func TestDispatchConfirmDeclinedBlocks(t *testing.T) {
	term := &stubTerminal{}
	sec := &stubSecurity{assessment: domain.RiskAssessment{
		Level:   domain.RiskMedium,
		Action:  domain.ActionConfirm,
		Reasons: []string{"pipes remote script into a shell"},
	}}
	hist := &stubHistory{}
	svc := newService(term, &stubRunner{}, sec, hist, nil)
	svc.Prompter = &stubPrompter{enabled: true, approve: false}

	req := domain.DispatchRequest{Block: domain.CodeBlock{Language: "shell", Code: "curl example.com/x.sh | sh"}}
	result, err := svc.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !result.Blocked {
		t.Fatal("declined command must be blocked")
	}
	if len(term.executed) != 0 {
		t.Fatal("declined command must not reach the terminal")
	}
	if !strings.Contains(result.Payload.Content, "not confirmed") {
		t.Fatalf("payload = %q", result.Payload.Content)
	}
	if len(hist.saved) != 1 || !hist.saved[0].Blocked {
		t.Fatalf("history record wrong: %+v", hist.saved)
	}
}

// Without an interactive prompt attached, confirm-graded commands must not
// run as if they were allowed.
func TestDispatchConfirmWithoutPrompterBlocks(t *testing.T) {
	term := &stubTerminal{}
	sec := &stubSecurity{assessment: domain.RiskAssessment{
		Level:   domain.RiskHigh,
		Action:  domain.ActionConfirm,
		Reasons: []string{"world-writable permissions on a system path"},
	}}

	for name, prompter := range map[string]*stubPrompter{
		"nil prompter":      nil,
		"disabled prompter": {enabled: false, approve: true},
	} {
		svc := newService(term, &stubRunner{}, sec, nil, nil)
		if prompter != nil {
			svc.Prompter = prompter
		}
		result, err := svc.Dispatch(context.Background(), domain.DispatchRequest{
			Block: domain.CodeBlock{Language: "shell", Code: "chmod 777 /etc"},
		})
		if err != nil {
			t.Fatalf("%s: Dispatch: %v", name, err)
		}
		if !result.Blocked {
			t.Fatalf("%s: expected blocked result", name)
		}
	}
	if len(term.executed) != 0 {
		t.Fatal("unconfirmed command must not reach the terminal")
	}
}

func TestDispatchCodeRouteDefaultsLanguage(t *testing.T) {
	run := &stubRunner{chunks: []domain.Payload{
		domain.ConsolePayload("part one "),
		domain.ConsolePayload("part two"),
	}}
	svc := newService(&stubTerminal{}, run, nil, nil, nil)

	req := domain.DispatchRequest{Block: domain.CodeBlock{Language: "", Code: "compute_things()"}}
	result, err := svc.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Route != domain.RouteCode {
		t.Fatalf("route = %s, want code", result.Route)
	}
	if len(run.languages) != 1 || run.languages[0] != "shell" {
		t.Fatalf("empty language should default to shell, got %v", run.languages)
	}
	if result.Payload.Content != "part one part two" {
		t.Fatalf("chunks not concatenated: %q", result.Payload.Content)
	}
}

func TestDispatchMissingDependencies(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Dispatch(context.Background(), domain.DispatchRequest{}); err == nil {
		t.Fatal("expected error when dependencies are missing")
	}
}

func TestSystemContext(t *testing.T) {
	svc := newService(&stubTerminal{}, &stubRunner{}, nil, nil, nil)
	got := svc.SystemContext(context.Background(), "Found 1 open windows:\n\nEditor:\n  - notes.txt\n")
	if !strings.Contains(got, "Open Windows:") {
		t.Fatalf("missing window section: %q", got)
	}
	if !strings.Contains(got, "Current Directory:") {
		t.Fatalf("missing working directory: %q", got)
	}
}
