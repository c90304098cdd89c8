// Package testutil holds helpers shared by mvm's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/flavor"
)

// NewTestConfig returns a Config rooted at a fresh temporary directory that
// is removed when the test ends.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.New(t.TempDir())
}

// PlantArtifact writes a fake server.jar for (f, version) under cfg and
// returns its path.
func PlantArtifact(t *testing.T, cfg *config.Config, f flavor.Flavor, version string, body []byte) string {
	t.Helper()
	path := cfg.ArtifactPath(f, version)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create version dir: %v", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists checks if a file exists at the given path
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if !FileExists(path) {
		t.Errorf("file does not exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does NOT exist at the given path
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if FileExists(path) {
		t.Errorf("file should not exist: %s", path)
	}
}
