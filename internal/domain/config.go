package domain

// Config is the YAML configuration stored at ~/.hostpilot/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	Windows             WindowSettings       `yaml:"windows"`
	Terminal            TerminalSettings     `yaml:"terminal"`
	Security            SecuritySettings     `yaml:"security"`
	Notification        NotificationSettings `yaml:"notification"`
	History             HistorySettings      `yaml:"history"`
}

// WindowSettings tunes the window registry.
type WindowSettings struct {
	// CacheSeconds is the snapshot TTL. Default 2.
	CacheSeconds int `yaml:"cache_seconds"`
}

// TerminalSettings tunes the visible terminal session manager.
type TerminalSettings struct {
	// Title is the window title requested from launchers.
	Title string `yaml:"title"`
	// Launchers overrides the platform-ordered candidate list when set.
	Launchers []string `yaml:"launchers,omitempty"`
	// CaptureTimeoutSeconds bounds command capture. Default 30.
	CaptureTimeoutSeconds int `yaml:"capture_timeout_seconds"`
	// ShowCommands echoes dispatched commands into the visible window.
	ShowCommands bool `yaml:"show_commands"`
}

// SecuritySettings gates the command guardrail.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// NotificationSettings gates desktop notifications on dispatch failures.
type NotificationSettings struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
}

// HistorySettings controls dispatch history persistence.
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
	// Path overrides the default ~/.hostpilot/history/history.db location.
	Path string `yaml:"path,omitempty"`
}
