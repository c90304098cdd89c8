package install

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

// ActiveRecord is the on-disk record of which version each flavor runs.
// An empty field means no version is active for that flavor.
type ActiveRecord struct {
	Vanilla string `toml:"vanilla"`
	Paper   string `toml:"paper"`
}

// Get returns the active version for f.
func (r *ActiveRecord) Get(f flavor.Flavor) string {
	switch f {
	case flavor.Vanilla:
		return r.Vanilla
	case flavor.Paper:
		return r.Paper
	}
	return ""
}

// Set records version as active for f, leaving the other flavor untouched.
func (r *ActiveRecord) Set(f flavor.Flavor, version string) {
	switch f {
	case flavor.Vanilla:
		r.Vanilla = version
	case flavor.Paper:
		r.Paper = version
	}
}

// StateManager reads and writes the active-version record. In-process
// callers are serialized by mu; other processes by an advisory lock on
// config.toml.lock.
type StateManager struct {
	config *config.Config
	mu     sync.RWMutex
}

// NewStateManager creates a new state manager
func NewStateManager(cfg *config.Config) *StateManager {
	return &StateManager{
		config: cfg,
	}
}

// Load reads the record. A missing file yields an empty record.
func (sm *StateManager) Load() (*ActiveRecord, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	lock := NewFileLock(sm.config.LockFile)
	if err := lock.LockShared(); err != nil {
		return nil, fmt.Errorf("failed to acquire state lock: %w", err)
	}
	defer lock.Unlock()

	return sm.loadWithoutLock()
}

// ReadActive returns the version recorded as active for f. A missing
// record file is KindNotFound; an empty field is returned as "" so the
// caller decides how to report it.
func (sm *StateManager) ReadActive(f flavor.Flavor) (string, error) {
	if _, err := os.Stat(sm.config.ConfigFile); os.IsNotExist(err) {
		return "", errs.New(errs.KindNotFound, "state",
			"no active version recorded ("+sm.config.ConfigFile+" does not exist)")
	}

	rec, err := sm.Load()
	if err != nil {
		return "", err
	}
	return rec.Get(f), nil
}

// WriteActive records version as active for f. The other flavor's entry
// is preserved, and the file is replaced atomically.
func (sm *StateManager) WriteActive(f flavor.Flavor, version string) error {
	if err := ValidateVersionString(version); err != nil {
		return err
	}
	if err := sm.config.EnsureHome(); err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	lock := NewFileLock(sm.config.LockFile)
	if err := lock.LockExclusive(); err != nil {
		return fmt.Errorf("failed to acquire state lock: %w", err)
	}
	defer lock.Unlock()

	rec, err := sm.loadWithoutLock()
	if err != nil {
		return err
	}
	rec.Set(f, version)
	return sm.saveWithoutLock(rec)
}

// loadWithoutLock reads the record. Caller must hold the file lock.
func (sm *StateManager) loadWithoutLock() (*ActiveRecord, error) {
	data, err := os.ReadFile(sm.config.ConfigFile)
	if os.IsNotExist(err) {
		return &ActiveRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sm.config.ConfigFile, err)
	}

	var rec ActiveRecord
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return nil, errs.Wrap(errs.KindSerialization, "state",
			"failed to parse "+sm.config.ConfigFile, err)
	}
	return &rec, nil
}

// saveWithoutLock writes the record via temp file and rename. Caller must
// hold the exclusive file lock.
func (sm *StateManager) saveWithoutLock(rec *ActiveRecord) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return errs.Wrap(errs.KindSerialization, "state", "failed to encode active record", err)
	}

	dir := filepath.Dir(sm.config.ConfigFile)
	tmp, err := os.CreateTemp(dir, ".config.toml.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write active record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync active record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close active record: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on active record: %w", err)
	}
	if err := os.Rename(tmpPath, sm.config.ConfigFile); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", sm.config.ConfigFile, err)
	}
	return nil
}

// ValidateVersionString rejects version strings that are empty or could
// escape the versions directory.
func ValidateVersionString(version string) error {
	if version == "" {
		return errs.New(errs.KindValidation, "install", "version must not be empty")
	}
	if strings.Contains(version, "..") || strings.ContainsAny(version, `/\`) {
		return errs.Newf(errs.KindValidation, "install", "invalid version %q", version)
	}
	if strings.HasPrefix(version, ".") {
		return errs.Newf(errs.KindValidation, "install", "invalid version %q: must not start with '.'", version)
	}
	return nil
}
