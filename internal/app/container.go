// Package app wires the dependency graph. BuildContainer is the single place
// where concrete infrastructure is chosen and connected to the application
// services; everything downstream works against ports.
package app

import (
	"context"
	"time"

	"github.com/doeshing/hostpilot/internal/application/dispatch"
	"github.com/doeshing/hostpilot/internal/application/doctor"
	"github.com/doeshing/hostpilot/internal/application/intent"
	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/infrastructure/config"
	"github.com/doeshing/hostpilot/internal/infrastructure/display"
	"github.com/doeshing/hostpilot/internal/infrastructure/history"
	"github.com/doeshing/hostpilot/internal/infrastructure/notify"
	"github.com/doeshing/hostpilot/internal/infrastructure/platform"
	"github.com/doeshing/hostpilot/internal/infrastructure/probe"
	"github.com/doeshing/hostpilot/internal/infrastructure/procs"
	"github.com/doeshing/hostpilot/internal/infrastructure/registry"
	"github.com/doeshing/hostpilot/internal/infrastructure/runner"
	"github.com/doeshing/hostpilot/internal/infrastructure/security"
	"github.com/doeshing/hostpilot/internal/infrastructure/terminal"
	"github.com/doeshing/hostpilot/internal/pkg/logger"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Container holds the fully wired application graph.
type Container struct {
	Config     domain.Config
	ConfigPath string
	Platform   domain.Platform
	Caps       domain.CapabilityMap

	Logger     ports.Logger
	Adapter    ports.PlatformAdapter
	Registry   *registry.Registry
	Terminal   ports.TerminalSession
	Classifier ports.Classifier
	Planner    *intent.Planner
	Dispatch   *dispatch.Service
	Doctor     *doctor.Service
	History    ports.HistoryRepository

	closers []func() error
}

// Options tune container construction.
type Options struct {
	// ConfigPath overrides config resolution when non-empty.
	ConfigPath string
	// Verbose enables debug/info/warn log output.
	Verbose bool
}

// BuildContainer probes the host, loads config and wires every service.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.NewStd(opts.Verbose)

	loader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	prober := probe.New()
	caps := prober.Detect(ctx)
	plat := prober.Platform()
	log.Info("environment probed", map[string]interface{}{
		"platform":     string(plat),
		"capabilities": len(caps.Names()),
	})

	adapter := platform.New(plat, caps, cfg.Terminal.Launchers, log)
	reg := registry.New(adapter, time.Duration(cfg.Windows.CacheSeconds)*time.Second, log)

	codeRunner := runner.New(time.Duration(cfg.Terminal.CaptureTimeoutSeconds) * time.Second)
	session := terminal.New(adapter, codeRunner, time.Duration(cfg.Terminal.CaptureTimeoutSeconds)*time.Second, log)
	session.AttachStore(terminal.NewFileStateStore(""))

	lister := procs.New(plat)
	classifier := intent.NewClassifier()
	planner := intent.NewPlanner(plat, caps, lister, reg)

	var guard ports.SecurityService
	if cfg.Security.Enabled {
		guard, err = security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			log.Warn("guardrail unavailable", map[string]interface{}{"error": err.Error()})
			guard = nil
		}
	}

	c := &Container{
		Config:     cfg,
		ConfigPath: loader.Path(),
		Platform:   plat,
		Caps:       caps,
		Logger:     log,
		Adapter:    adapter,
		Registry:   reg,
		Terminal:   session,
		Classifier: classifier,
		Planner:    planner,
	}

	var store ports.HistoryRepository
	if cfg.History.Enabled {
		path := history.ExpandPath(cfg.History.Path)
		sqlite, err := history.NewSQLiteStore(path)
		if err != nil {
			log.Warn("history db unavailable, falling back to file store", map[string]interface{}{"error": err.Error()})
			store = history.NewFileStore(path + ".jsonl")
		} else {
			store = sqlite
			c.closers = append(c.closers, sqlite.Close)
		}
	}
	c.History = store

	notifier := notify.New(plat, caps, cfg.Notification.Enabled)

	c.Dispatch = &dispatch.Service{
		Terminal:    session,
		CodeRunner:  codeRunner,
		Display:     display.New(plat),
		Security:    guard,
		History:     store,
		Notifier:    notifier,
		Logger:      log,
		NotifyTitle: cfg.Notification.Title,
	}
	c.Doctor = doctor.New(plat, caps, cfg, loader.Path())
	return c, nil
}

// Close releases held resources. The terminal session is deliberately left
// running: its handle is persisted so the next invocation reattaches, and
// only an explicit close command tears the window down.
func (c *Container) Close() {
	for _, closer := range c.closers {
		_ = closer()
	}
}
