package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

const (
	// EnvMvmHome is the environment variable to override the default mvm home directory.
	// It is honored only when it names an existing directory.
	EnvMvmHome = "MVM_HOME"

	// EnvAPITimeout is the environment variable to configure catalog request timeout
	EnvAPITimeout = "MVM_API_TIMEOUT"

	// EnvDownloadTimeout is the environment variable to configure artifact download timeout
	EnvDownloadTimeout = "MVM_DOWNLOAD_TIMEOUT"

	// EnvVanillaManifestURL overrides the Mojang version manifest location
	EnvVanillaManifestURL = "MVM_VANILLA_MANIFEST_URL"

	// EnvPaperAPIURL overrides the PaperMC project API base
	EnvPaperAPIURL = "MVM_PAPER_API_URL"

	// DefaultAPITimeout is the default timeout for catalog requests (30 seconds)
	DefaultAPITimeout = 30 * time.Second

	// DefaultDownloadTimeout is the default timeout for a whole artifact download (10 minutes)
	DefaultDownloadTimeout = 10 * time.Minute

	// DefaultVanillaManifestURL is the Mojang launcher version manifest.
	DefaultVanillaManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

	// DefaultPaperAPIURL is the PaperMC v2 project endpoint.
	DefaultPaperAPIURL = "https://api.papermc.io/v2/projects/paper"

	// ArtifactName is the file name of every installed server binary.
	ArtifactName = "server.jar"

	dirName = ".mvm"
)

// GetAPITimeout returns the configured catalog timeout from MVM_API_TIMEOUT.
// If not set or invalid, returns DefaultAPITimeout (30 seconds).
// Accepts duration strings like "30s", "1m", "2m30s".
func GetAPITimeout() time.Duration {
	return durationFromEnv(EnvAPITimeout, DefaultAPITimeout, time.Second, 10*time.Minute)
}

// GetDownloadTimeout returns the configured download timeout from MVM_DOWNLOAD_TIMEOUT.
// If not set or invalid, returns DefaultDownloadTimeout (10 minutes).
func GetDownloadTimeout() time.Duration {
	return durationFromEnv(EnvDownloadTimeout, DefaultDownloadTimeout, time.Minute, 2*time.Hour)
}

func durationFromEnv(name string, def, lo, hi time.Duration) time.Duration {
	envValue := os.Getenv(name)
	if envValue == "" {
		return def
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			name, envValue, def)
		return def
	}

	if duration < lo {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum %v\n",
			name, duration, lo)
		return lo
	}
	if duration > hi {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum %v\n",
			name, duration, hi)
		return hi
	}

	return duration
}

// GetVanillaManifestURL returns the manifest URL, honoring MVM_VANILLA_MANIFEST_URL.
func GetVanillaManifestURL() string {
	if v := os.Getenv(EnvVanillaManifestURL); v != "" {
		return v
	}
	return DefaultVanillaManifestURL
}

// GetPaperAPIURL returns the Paper project URL, honoring MVM_PAPER_API_URL.
func GetPaperAPIURL() string {
	if v := os.Getenv(EnvPaperAPIURL); v != "" {
		return v
	}
	return DefaultPaperAPIURL
}

// Config holds mvm's resolved storage layout. It is created once per
// process and passed to every component that touches the filesystem.
type Config struct {
	HomeDir      string // $MVM_HOME or ~/.mvm
	ConfigFile   string // $MVM_HOME/config.toml (active-version record)
	LockFile     string // $MVM_HOME/config.toml.lock
	SettingsFile string // $MVM_HOME/settings.toml (user preferences)
}

// New builds a Config rooted at home.
func New(home string) *Config {
	return &Config{
		HomeDir:      home,
		ConfigFile:   filepath.Join(home, "config.toml"),
		LockFile:     filepath.Join(home, "config.toml.lock"),
		SettingsFile: filepath.Join(home, "settings.toml"),
	}
}

// DefaultConfig resolves the root directory: MVM_HOME if it names an
// existing directory, otherwise ~/.mvm. The root need not exist yet.
func DefaultConfig() (*Config, error) {
	if override := os.Getenv(EnvMvmHome); override != "" {
		if info, err := os.Stat(override); err == nil && info.IsDir() {
			return New(override), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil, errs.Wrap(errs.KindConfiguration, "config",
			"cannot determine a home directory and "+EnvMvmHome+" does not name an existing directory", err)
	}
	return New(filepath.Join(home, dirName)), nil
}

// EnsureHome creates the root directory if needed.
func (c *Config) EnsureHome() error {
	if err := os.MkdirAll(c.HomeDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.HomeDir, err)
	}
	return nil
}

// FlavorDir returns $MVM_HOME/<flavor>
func (c *Config) FlavorDir(f flavor.Flavor) string {
	return filepath.Join(c.HomeDir, f.String())
}

// VersionsDir returns $MVM_HOME/<flavor>/versions
func (c *Config) VersionsDir(f flavor.Flavor) string {
	return filepath.Join(c.FlavorDir(f), "versions")
}

// VersionDir returns the directory holding one installed version.
func (c *Config) VersionDir(f flavor.Flavor, version string) string {
	return filepath.Join(c.VersionsDir(f), version)
}

// ArtifactPath returns the server.jar location for a version.
func (c *Config) ArtifactPath(f flavor.Flavor, version string) string {
	return filepath.Join(c.VersionDir(f, version), ArtifactName)
}

// InstallLockPath returns the advisory lock guarding installs of a version.
// It lives beside, not inside, the version directory so removing the
// directory never races with the lock file.
func (c *Config) InstallLockPath(f flavor.Flavor, version string) string {
	return filepath.Join(c.VersionsDir(f), "."+version+".lock")
}
