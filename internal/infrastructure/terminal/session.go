// Package terminal owns the lifecycle of the visible terminal process: a
// terminal window the human operator can watch while the agent executes
// commands. All commands routed to the terminal channel flow through the
// session manager here; output is captured by a parallel non-visible
// execution because no platform reports output back from a GUI terminal.
package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/pkg/procutil"
	"github.com/doeshing/hostpilot/internal/ports"
)

// bannerCommands are echoed into a freshly opened terminal and recorded as
// non-visible history entries.
var bannerCommands = []string{
	`echo "hostpilot terminal"`,
	`echo "Commands executed by the agent appear here"`,
	`echo "============================================"`,
}

// Session implements ports.TerminalSession. Zero or one live terminal
// process exists per instance; history persists across open/close cycles
// until explicitly cleared. All mutable state is guarded by the mutex so
// the session can be shared across concurrent requests.
type Session struct {
	adapter        ports.PlatformAdapter
	fallback       ports.CodeRunner
	log            ports.Logger
	captureTimeout time.Duration

	mu      sync.Mutex
	store   SessionStore
	state   domain.SessionState
	handle  string
	pid     int
	history []domain.CommandHistoryEntry
}

// New builds a session manager. fallback receives commands when no terminal
// can be opened at all; captureTimeout bounds each command capture.
func New(adapter ports.PlatformAdapter, fallback ports.CodeRunner, captureTimeout time.Duration, log ports.Logger) *Session {
	if captureTimeout <= 0 {
		captureTimeout = domain.DefaultCaptureTimeout
	}
	return &Session{
		adapter:        adapter,
		fallback:       fallback,
		log:            log,
		captureTimeout: captureTimeout,
		state:          domain.SessionClosed,
	}
}

// Open spawns a visible terminal with the given title and emits the banner.
// An already-active session is closed first so repeated opens never orphan
// terminal processes. Returns false only when every candidate launcher
// fails, in which case state remains closed.
func (s *Session) Open(ctx context.Context, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx, title)
}

func (s *Session) openLocked(ctx context.Context, title string) bool {
	if s.state == domain.SessionActive {
		s.closeLocked()
	}
	s.state = domain.SessionOpening

	result, err := s.adapter.SpawnTerminal(ctx, title)
	if err != nil || !result.Success {
		s.log.Warn("terminal spawn failed", map[string]interface{}{"error": errString(err)})
		s.state = domain.SessionClosed
		return false
	}

	s.state = domain.SessionActive
	s.handle = result.Handle
	s.pid = result.PID
	s.persistLocked()

	now := time.Now()
	for _, cmd := range bannerCommands {
		s.history = append(s.history, domain.CommandHistoryEntry{
			Command:  cmd,
			IssuedAt: now,
			Visible:  false,
		})
	}

	s.log.Info("terminal opened", map[string]interface{}{
		"launcher": s.handle,
		"pid":      s.pid,
	})
	return true
}

// Execute runs a command through the visible terminal. When no session is
// active it attempts to open one; when that also fails it delegates to the
// generic code-execution collaborator. A capture timeout or spawn failure
// produces an error-content payload rather than an error.
func (s *Session) Execute(ctx context.Context, command string, showInTerminal bool) domain.Payload {
	s.mu.Lock()

	if !s.ensureActiveLocked(ctx) {
		s.mu.Unlock()
		return s.fallbackRun(ctx, command)
	}

	s.history = append(s.history, domain.CommandHistoryEntry{
		Command:  command,
		IssuedAt: time.Now(),
		Visible:  showInTerminal,
	})

	if showInTerminal {
		// Best effort; not every platform can write into an open window.
		if !s.adapter.RunInTerminal(ctx, s.handle, command) {
			s.log.Debug("terminal echo unsupported", map[string]interface{}{"launcher": s.handle})
		}
	}
	s.mu.Unlock()

	// Capture can run for the full timeout; it happens outside the lock so
	// status and history queries stay responsive during long commands.
	capture, err := s.adapter.RunCapturing(ctx, command, s.captureTimeout)
	if err != nil {
		return domain.ConsolePayload(fmt.Sprintf("Error executing command: %v", err))
	}
	return domain.ConsolePayload(capture.Combined())
}

// ensureActiveLocked polls liveness before each command send and reopens the
// terminal when the underlying process disappeared unexpectedly.
func (s *Session) ensureActiveLocked(ctx context.Context) bool {
	switch s.state {
	case domain.SessionActive:
		if s.pid > 0 && !procutil.Alive(s.pid) {
			s.log.Warn("terminal process disappeared", map[string]interface{}{"pid": s.pid})
			s.state = domain.SessionDegraded
			s.closeLocked()
			return s.openLocked(ctx, "hostpilot")
		}
		return true
	default:
		return s.openLocked(ctx, "hostpilot")
	}
}

func (s *Session) fallbackRun(ctx context.Context, command string) domain.Payload {
	if s.fallback == nil {
		return domain.ConsolePayload("Error: no terminal available and no fallback executor configured")
	}
	chunks, err := s.fallback.Run(ctx, "shell", command)
	if err != nil {
		return domain.ConsolePayload(fmt.Sprintf("Error executing command: %v", err))
	}
	content := ""
	for _, chunk := range chunks {
		content += chunk.Content
	}
	return domain.ConsolePayload(content)
}

// Close tears the terminal down: graceful termination, a bounded wait, then
// a force kill. Idempotent; state always ends closed even when termination
// calls fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// AttachStore wires handle persistence and reattaches to a terminal a
// previous invocation left behind. A handle whose process is gone is cleared
// instead of adopted.
func (s *Session) AttachStore(store SessionStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	if store == nil || s.state == domain.SessionActive {
		return
	}
	handle, ok := store.Load()
	if !ok {
		return
	}
	if handle.PID > 0 && !procutil.Alive(handle.PID) {
		s.log.Debug("stale terminal handle discarded", map[string]interface{}{"pid": handle.PID})
		if err := store.Clear(); err != nil {
			s.log.Warn("session state clear failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	s.state = domain.SessionActive
	s.handle = handle.Launcher
	s.pid = handle.PID
	s.log.Info("terminal session reattached", map[string]interface{}{
		"launcher": s.handle,
		"pid":      s.pid,
	})
}

func (s *Session) persistLocked() {
	if s.store == nil {
		return
	}
	err := s.store.Save(domain.SessionHandle{
		Launcher: s.handle,
		PID:      s.pid,
		OpenedAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("session state save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Session) closeLocked() {
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.log.Warn("session state clear failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if s.pid > 0 && procutil.Alive(s.pid) {
		procutil.Terminate(s.pid)
		deadline := time.Now().Add(domain.TerminateWait)
		for time.Now().Before(deadline) && procutil.Alive(s.pid) {
			time.Sleep(50 * time.Millisecond)
		}
		if procutil.Alive(s.pid) {
			procutil.Kill(s.pid)
		}
	}
	s.state = domain.SessionClosed
	s.handle = ""
	s.pid = 0
}

// IsActive reports current process liveness; false if never opened.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive {
		return false
	}
	if s.pid > 0 {
		return procutil.Alive(s.pid)
	}
	// Scripting-bridge spawns (macOS) hand back no child process to poll.
	return true
}

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the append-only command history.
func (s *Session) History() []domain.CommandHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CommandHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory empties the history in place.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
}

func errString(err error) string {
	if err == nil {
		return "spawn unsuccessful"
	}
	return err.Error()
}

var _ ports.TerminalSession = (*Session)(nil)
