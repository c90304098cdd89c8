package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukumogami/mvm/internal/flavor"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvMvmHome, "")

	cfg, err := DefaultConfig()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	expectedHome := filepath.Join(home, ".mvm")

	assert.Equal(t, expectedHome, cfg.HomeDir)
	assert.Equal(t, filepath.Join(expectedHome, "config.toml"), cfg.ConfigFile)
	assert.Equal(t, filepath.Join(expectedHome, "settings.toml"), cfg.SettingsFile)
	assert.Equal(t, filepath.Join(expectedHome, "config.toml.lock"), cfg.LockFile)
}

func TestDefaultConfig_EnvOverrideExistingDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvMvmHome, dir)

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.HomeDir)
}

func TestDefaultConfig_EnvOverrideMissingDirIgnored(t *testing.T) {
	t.Setenv(EnvMvmHome, filepath.Join(t.TempDir(), "does-not-exist"))

	cfg, err := DefaultConfig()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".mvm"), cfg.HomeDir)
}

func TestDefaultConfig_EnvOverrideFileIgnored(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	t.Setenv(EnvMvmHome, file)

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.NotEqual(t, file, cfg.HomeDir)
}

func TestLayoutHelpers(t *testing.T) {
	cfg := New("/srv/mvm")

	assert.Equal(t, filepath.Join("/srv/mvm", "paper"), cfg.FlavorDir(flavor.Paper))
	assert.Equal(t, filepath.Join("/srv/mvm", "vanilla", "versions"), cfg.VersionsDir(flavor.Vanilla))
	assert.Equal(t, filepath.Join("/srv/mvm", "vanilla", "versions", "1.20.4"), cfg.VersionDir(flavor.Vanilla, "1.20.4"))
	assert.Equal(t, filepath.Join("/srv/mvm", "paper", "versions", "1.20.4", "server.jar"), cfg.ArtifactPath(flavor.Paper, "1.20.4"))
	assert.Equal(t, filepath.Join("/srv/mvm", "paper", "versions", ".1.20.4.lock"), cfg.InstallLockPath(flavor.Paper, "1.20.4"))
}

func TestEnsureHome(t *testing.T) {
	cfg := New(filepath.Join(t.TempDir(), "nested", "mvm"))
	require.NoError(t, cfg.EnsureHome())

	info, err := os.Stat(cfg.HomeDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetAPITimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", DefaultAPITimeout},
		{"valid", "45s", 45 * time.Second},
		{"invalid", "soon", DefaultAPITimeout},
		{"too low", "10ms", time.Second},
		{"too high", "1h", 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPITimeout, tt.value)
			assert.Equal(t, tt.want, GetAPITimeout())
		})
	}
}

func TestGetDownloadTimeout(t *testing.T) {
	t.Setenv(EnvDownloadTimeout, "")
	assert.Equal(t, DefaultDownloadTimeout, GetDownloadTimeout())

	t.Setenv(EnvDownloadTimeout, "5s")
	assert.Equal(t, time.Minute, GetDownloadTimeout())

	t.Setenv(EnvDownloadTimeout, "30m")
	assert.Equal(t, 30*time.Minute, GetDownloadTimeout())
}

func TestCatalogURLOverrides(t *testing.T) {
	t.Setenv(EnvVanillaManifestURL, "")
	t.Setenv(EnvPaperAPIURL, "")
	assert.Equal(t, DefaultVanillaManifestURL, GetVanillaManifestURL())
	assert.Equal(t, DefaultPaperAPIURL, GetPaperAPIURL())

	t.Setenv(EnvVanillaManifestURL, "http://127.0.0.1:9/manifest.json")
	t.Setenv(EnvPaperAPIURL, "http://127.0.0.1:9/paper")
	assert.Equal(t, "http://127.0.0.1:9/manifest.json", GetVanillaManifestURL())
	assert.Equal(t, "http://127.0.0.1:9/paper", GetPaperAPIURL())
}
