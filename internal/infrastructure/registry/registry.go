// Package registry caches the platform adapter's window enumeration behind
// a short TTL and offers title/application lookups over the cached snapshot.
package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Registry implements ports.WindowRegistry. Exactly one snapshot is live at
// a time; a refresh replaces it atomically under the mutex, so concurrent
// readers inside the TTL always observe one consistent enumeration.
type Registry struct {
	adapter ports.PlatformAdapter
	log     ports.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	snapshot domain.WindowSnapshot
}

// New builds a registry over the given adapter. A non-positive ttl falls
// back to the default cache duration.
func New(adapter ports.PlatformAdapter, ttl time.Duration, log ports.Logger) *Registry {
	if ttl <= 0 {
		ttl = domain.DefaultCacheDuration
	}
	return &Registry{
		adapter: adapter,
		log:     log,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetAllWindows returns the cached records when the snapshot is fresh and no
// forced refresh was requested, else re-enumerates. On adapter failure the
// previous snapshot's records are returned if present, an empty slice
// otherwise; the registry never raises to the caller.
func (r *Registry) GetAllWindows(ctx context.Context, forceRefresh bool) []domain.WindowRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !forceRefresh && r.snapshot.Fresh(r.now(), r.ttl) {
		return copyRecords(r.snapshot.Records)
	}

	records, err := r.adapter.ListWindows(ctx)
	if err != nil {
		r.log.Warn("window enumeration failed", map[string]interface{}{"error": err.Error()})
		return copyRecords(r.snapshot.Records)
	}

	r.snapshot = domain.WindowSnapshot{Records: records, CapturedAt: r.now()}
	return copyRecords(records)
}

// FindByTitle returns the first cached window whose title matches the
// case-insensitive pattern, refreshing under the same TTL rule.
func (r *Registry) FindByTitle(ctx context.Context, pattern string) (*domain.WindowRecord, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	for _, win := range r.GetAllWindows(ctx, false) {
		if re.MatchString(win.Title) {
			found := win
			return &found, nil
		}
	}
	return nil, nil
}

// FindByApplication returns all cached windows whose application contains
// the substring, case-insensitively.
func (r *Registry) FindByApplication(ctx context.Context, substring string) []domain.WindowRecord {
	needle := strings.ToLower(substring)
	var matches []domain.WindowRecord
	for _, win := range r.GetAllWindows(ctx, false) {
		if strings.Contains(strings.ToLower(win.Application), needle) {
			matches = append(matches, win)
		}
	}
	return matches
}

// Summary renders a human-readable grouped-by-application view of the open
// windows, capped at three titles per application.
func (r *Registry) Summary(ctx context.Context) string {
	windows := r.GetAllWindows(ctx, false)
	if len(windows) == 0 {
		return "No windows detected."
	}

	apps := make(map[string][]string)
	var order []string
	for _, win := range windows {
		app := win.Application
		if app == "" {
			app = "Unknown"
		}
		if _, seen := apps[app]; !seen {
			order = append(order, app)
		}
		apps[app] = append(apps[app], win.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d open windows:\n", len(windows))
	for _, app := range order {
		titles := apps[app]
		b.WriteString("\n" + app + ":\n")
		for i, title := range titles {
			if i == 3 {
				fmt.Fprintf(&b, "  ... and %d more\n", len(titles)-3)
				break
			}
			b.WriteString("  - " + title + "\n")
		}
	}
	return b.String()
}

func copyRecords(records []domain.WindowRecord) []domain.WindowRecord {
	out := make([]domain.WindowRecord, len(records))
	copy(out, records)
	return out
}
