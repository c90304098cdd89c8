package install

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsukumogami/mvm/internal/catalog"
	"github.com/tsukumogami/mvm/internal/flavor"
)

// List returns the installed versions of f, newest first. Directories
// without a server.jar (interrupted installs from older releases, stray
// folders) are skipped.
func (s *Store) List(f flavor.Flavor) ([]string, error) {
	entries, err := os.ReadDir(s.config.VersionsDir(f))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read versions directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if s.IsInstalled(f, name) {
			versions = append(versions, name)
		}
	}
	return catalog.SortDescending(versions), nil
}
