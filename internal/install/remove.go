package install

import (
	"fmt"
	"os"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

// Remove deletes the version directory for (f, version). It does not touch
// the active-version record.
func (s *Store) Remove(f flavor.Flavor, version string) error {
	if err := ValidateVersionString(version); err != nil {
		return err
	}

	dir := s.config.VersionDir(f, version)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errs.Newf(errs.KindNotFound, "install",
			"%s version %s is not installed", f, version)
	}

	lock := NewFileLock(s.config.InstallLockPath(f, version))
	if err := lock.LockExclusive(); err != nil {
		return fmt.Errorf("failed to acquire install lock: %w", err)
	}
	defer lock.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	s.logger.Info("removed", "flavor", f.String(), "version", version)
	return nil
}
