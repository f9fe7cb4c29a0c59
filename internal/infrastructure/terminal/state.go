package terminal

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/doeshing/hostpilot/internal/domain"
)

// SessionStore persists the live terminal handle between invocations.
type SessionStore interface {
	Save(handle domain.SessionHandle) error
	Load() (domain.SessionHandle, bool)
	Clear() error
}

// FileStateStore keeps the session handle as JSON on disk, by default at
// ~/.hostpilot/session.json.
type FileStateStore struct {
	path string
}

// NewFileStateStore builds a store at the given path; empty selects the
// default location under the user's home directory.
func NewFileStateStore(path string) *FileStateStore {
	if path == "" {
		path = filepath.Join(homeDir(), ".hostpilot", "session.json")
	}
	return &FileStateStore{path: path}
}

// Save writes the handle, creating the state directory when missing.
func (f *FileStateStore) Save(handle domain.SessionHandle) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(handle)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, domain.SecureFilePermissions)
}

// Load reads the persisted handle. A missing, unreadable or empty file
// reports no handle rather than an error; stale state is never fatal.
func (f *FileStateStore) Load() (domain.SessionHandle, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return domain.SessionHandle{}, false
	}
	var handle domain.SessionHandle
	if err := json.Unmarshal(data, &handle); err != nil {
		return domain.SessionHandle{}, false
	}
	if handle.Launcher == "" && handle.PID == 0 {
		return domain.SessionHandle{}, false
	}
	return handle, true
}

// Clear removes the state file, tolerating absence.
func (f *FileStateStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ SessionStore = (*FileStateStore)(nil)
