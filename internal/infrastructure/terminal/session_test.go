package terminal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

// stubAdapter spawns "terminals" without any real process (PID 0).
type stubAdapter struct {
	spawnFails bool
	spawns     int
	echoed     []string
	captured   []string
	capture    domain.CaptureResult
	captureErr error
}

func (s *stubAdapter) Platform() domain.Platform { return domain.PlatformMacOS }

func (s *stubAdapter) ListWindows(context.Context) ([]domain.WindowRecord, error) { return nil, nil }
func (s *stubAdapter) ActiveWindow(context.Context) (*domain.WindowRecord, error) { return nil, nil }
func (s *stubAdapter) SwitchTo(context.Context, domain.WindowRecord) bool         { return false }
func (s *stubAdapter) CloseWindow(context.Context, domain.WindowRecord) bool      { return false }

func (s *stubAdapter) SpawnTerminal(context.Context, string) (domain.SpawnResult, error) {
	s.spawns++
	if s.spawnFails {
		return domain.SpawnResult{}, domain.NewFailure(domain.FailureProcessSpawn, "spawn_terminal", nil)
	}
	return domain.SpawnResult{Success: true, Handle: "stub"}, nil
}

func (s *stubAdapter) RunInTerminal(_ context.Context, _, command string) bool {
	s.echoed = append(s.echoed, command)
	return true
}

func (s *stubAdapter) RunCapturing(_ context.Context, command string, _ time.Duration) (domain.CaptureResult, error) {
	s.captured = append(s.captured, command)
	return s.capture, s.captureErr
}

type stubRunner struct {
	ran []string
}

func (s *stubRunner) Run(_ context.Context, _, code string) ([]domain.Payload, error) {
	s.ran = append(s.ran, code)
	return []domain.Payload{domain.ConsolePayload("fallback output")}, nil
}

func TestOpenRecordsBanner(t *testing.T) {
	adapter := &stubAdapter{}
	session := New(adapter, nil, 0, nopLogger{})

	if !session.Open(context.Background(), "AI Terminal") {
		t.Fatal("Open failed")
	}
	if !session.IsActive() {
		t.Fatal("session should be active after Open")
	}

	history := session.History()
	if len(history) != len(bannerCommands) {
		t.Fatalf("history has %d entries, want %d banner lines", len(history), len(bannerCommands))
	}
	for _, entry := range history {
		if entry.Visible {
			t.Fatalf("banner entry marked visible: %+v", entry)
		}
	}
}

// Opening over an active session closes the old one instead of orphaning it.
func TestOpenWhileActiveReplacesSession(t *testing.T) {
	adapter := &stubAdapter{}
	session := New(adapter, nil, 0, nopLogger{})
	ctx := context.Background()

	session.Open(ctx, "first")
	session.Open(ctx, "second")

	if adapter.spawns != 2 {
		t.Fatalf("spawns = %d, want 2", adapter.spawns)
	}
	if !session.IsActive() {
		t.Fatal("session should be active after reopen")
	}
}

func TestExecuteCapturesAndEchoes(t *testing.T) {
	adapter := &stubAdapter{capture: domain.CaptureResult{Stdout: "total 0\n"}}
	session := New(adapter, nil, 0, nopLogger{})
	ctx := context.Background()

	payload := session.Execute(ctx, "ls -la", true)
	if payload.Content != "total 0\n" {
		t.Fatalf("payload = %q", payload.Content)
	}
	if len(adapter.echoed) != 1 || adapter.echoed[0] != "ls -la" {
		t.Fatalf("echo calls: %v", adapter.echoed)
	}
	if len(adapter.captured) != 1 {
		t.Fatalf("capture calls: %v", adapter.captured)
	}

	history := session.History()
	last := history[len(history)-1]
	if last.Command != "ls -la" || !last.Visible {
		t.Fatalf("history entry wrong: %+v", last)
	}
}

func TestExecuteHiddenSkipsEcho(t *testing.T) {
	adapter := &stubAdapter{capture: domain.CaptureResult{Stdout: "ok"}}
	session := New(adapter, nil, 0, nopLogger{})

	session.Execute(context.Background(), "pwd", false)
	if len(adapter.echoed) != 0 {
		t.Fatalf("hidden command was echoed: %v", adapter.echoed)
	}
}

func TestExecuteOpensOnDemand(t *testing.T) {
	adapter := &stubAdapter{capture: domain.CaptureResult{Stdout: "ok"}}
	session := New(adapter, nil, 0, nopLogger{})

	session.Execute(context.Background(), "pwd", false)
	if adapter.spawns != 1 {
		t.Fatalf("Execute should open a terminal first, spawns=%d", adapter.spawns)
	}
}

func TestExecuteCaptureFailureYieldsErrorPayload(t *testing.T) {
	adapter := &stubAdapter{
		captureErr: domain.NewFailure(domain.FailureProcessTimeout, "capture", context.DeadlineExceeded),
	}
	session := New(adapter, nil, 0, nopLogger{})

	payload := session.Execute(context.Background(), "sleep 999", false)
	if payload.Content == "" || payload.Content[:5] != "Error" {
		t.Fatalf("payload = %q", payload.Content)
	}
}

func TestExecuteFallsBackWhenSpawnExhausted(t *testing.T) {
	adapter := &stubAdapter{spawnFails: true}
	runner := &stubRunner{}
	session := New(adapter, runner, 0, nopLogger{})

	payload := session.Execute(context.Background(), "echo hi", true)
	if payload.Content != "fallback output" {
		t.Fatalf("payload = %q", payload.Content)
	}
	if len(runner.ran) != 1 || runner.ran[0] != "echo hi" {
		t.Fatalf("fallback runner calls: %v", runner.ran)
	}
	if len(adapter.captured) != 0 {
		t.Fatal("capture must not run without a session")
	}
}

func TestExecuteWithoutFallback(t *testing.T) {
	adapter := &stubAdapter{spawnFails: true}
	session := New(adapter, nil, 0, nopLogger{})

	payload := session.Execute(context.Background(), "echo hi", false)
	if payload.Content == "" || payload.Content[:5] != "Error" {
		t.Fatalf("payload = %q", payload.Content)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	adapter := &stubAdapter{}
	session := New(adapter, nil, 0, nopLogger{})

	session.Open(context.Background(), "t")
	session.Close()
	session.Close()

	if session.IsActive() {
		t.Fatal("session active after Close")
	}
	if session.State() != domain.SessionClosed {
		t.Fatalf("state = %s", session.State())
	}
}

// A persisted handle from an earlier invocation is adopted when the session
// starts, so status and close act on the terminal that invocation opened.
func TestAttachStoreReattachesToLiveHandle(t *testing.T) {
	store := NewFileStateStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(domain.SessionHandle{Launcher: "iterm"}); err != nil {
		t.Fatal(err)
	}

	adapter := &stubAdapter{capture: domain.CaptureResult{Stdout: "ok"}}
	session := New(adapter, nil, 0, nopLogger{})
	session.AttachStore(store)

	if !session.IsActive() {
		t.Fatal("session should reattach to the persisted handle")
	}
	session.Execute(context.Background(), "pwd", false)
	if adapter.spawns != 0 {
		t.Fatalf("reattached session must not respawn, spawns=%d", adapter.spawns)
	}
}

func TestAttachStoreDiscardsDeadHandle(t *testing.T) {
	store := NewFileStateStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(domain.SessionHandle{Launcher: "gnome-terminal", PID: 1 << 28}); err != nil {
		t.Fatal(err)
	}

	session := New(&stubAdapter{}, nil, 0, nopLogger{})
	session.AttachStore(store)

	if session.IsActive() {
		t.Fatal("dead handle must not be adopted")
	}
	if _, ok := store.Load(); ok {
		t.Fatal("dead handle must be cleared from the store")
	}
}

func TestOpenPersistsHandleAndClosePurgesIt(t *testing.T) {
	store := NewFileStateStore(filepath.Join(t.TempDir(), "session.json"))
	session := New(&stubAdapter{}, nil, 0, nopLogger{})
	session.AttachStore(store)
	ctx := context.Background()

	if !session.Open(ctx, "t") {
		t.Fatal("Open failed")
	}
	handle, ok := store.Load()
	if !ok || handle.Launcher != "stub" {
		t.Fatalf("persisted handle wrong: %+v ok=%v", handle, ok)
	}

	session.Close()
	if _, ok := store.Load(); ok {
		t.Fatal("handle survived Close")
	}
}

// blockingAdapter parks RunCapturing until released, signalling entry.
type blockingAdapter struct {
	stubAdapter
	started chan struct{}
	release chan struct{}
}

func (b *blockingAdapter) RunCapturing(_ context.Context, _ string, _ time.Duration) (domain.CaptureResult, error) {
	close(b.started)
	<-b.release
	return domain.CaptureResult{Stdout: "done"}, nil
}

// Status and history queries must answer while a long capture is in flight.
func TestQueriesRespondDuringCapture(t *testing.T) {
	adapter := &blockingAdapter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := New(adapter, nil, 0, nopLogger{})

	result := make(chan domain.Payload, 1)
	go func() {
		result <- session.Execute(context.Background(), "sleep 30", false)
	}()

	select {
	case <-adapter.started:
	case <-time.After(5 * time.Second):
		t.Fatal("capture never started")
	}

	done := make(chan struct{})
	go func() {
		session.IsActive()
		session.History()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queries blocked behind an in-flight capture")
	}

	close(adapter.release)
	payload := <-result
	if payload.Content != "done" {
		t.Fatalf("payload = %q", payload.Content)
	}
}

// History survives close/reopen cycles until explicitly cleared.
func TestHistoryPersistsAcrossSessions(t *testing.T) {
	adapter := &stubAdapter{capture: domain.CaptureResult{Stdout: "ok"}}
	session := New(adapter, nil, 0, nopLogger{})
	ctx := context.Background()

	session.Open(ctx, "t")
	session.Execute(ctx, "first", false)
	session.Close()
	session.Open(ctx, "t")

	history := session.History()
	found := false
	for _, entry := range history {
		if entry.Command == "first" {
			found = true
		}
	}
	if !found {
		t.Fatal("history lost across close/reopen")
	}

	session.ClearHistory()
	if len(session.History()) != 0 {
		t.Fatal("ClearHistory left entries behind")
	}
}
