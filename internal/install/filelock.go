package install

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileLock is an advisory lock held on a dedicated lock file. Locks are
// per open file, so two FileLocks on the same path exclude each other even
// within one process.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock returns an unlocked lock for path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// LockShared blocks until a shared (reader) lock is held.
func (l *FileLock) LockShared() error {
	return l.acquire(false)
}

// LockExclusive blocks until an exclusive (writer) lock is held.
func (l *FileLock) LockExclusive() error {
	return l.acquire(true)
}

// Unlock releases the lock. Unlocking an unlocked FileLock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.path, err)
	}
	return closeErr
}

func (l *FileLock) acquire(exclusive bool) error {
	if l.file != nil {
		return fmt.Errorf("lock %s already held", l.path)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lockFile(f, exclusive); err != nil {
		f.Close()
		return fmt.Errorf("failed to lock %s: %w", l.path, err)
	}
	l.file = f
	return nil
}
