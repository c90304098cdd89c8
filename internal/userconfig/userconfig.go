// Package userconfig provides user preferences for mvm.
// Preferences are stored in $MVM_HOME/settings.toml and can be modified
// via the `mvm config` command. The active-version record lives in a
// separate file and is not handled here.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
)

const (
	// KeyDefaultFlavor selects the flavor used when --paper is not given.
	KeyDefaultFlavor = "default_flavor"
	// KeyProgress toggles the download progress bar.
	KeyProgress = "progress"
)

// Config represents user-configurable settings.
type Config struct {
	// DefaultFlavor is "vanilla" or "paper". Default is "vanilla".
	DefaultFlavor string `toml:"default_flavor"`

	// Progress enables the download progress bar on terminals.
	// Default is true.
	Progress bool `toml:"progress"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DefaultFlavor: flavor.Vanilla.String(),
		Progress:      true,
	}
}

// Load reads the settings file under cfg. Missing files yield defaults;
// unreadable or malformed files are errors.
func Load(cfg *config.Config) (*Config, error) {
	return loadFromPath(cfg.SettingsFile)
}

// loadFromPath reads settings from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, errs.Wrap(errs.KindSerialization, "settings", "failed to parse "+path, err)
	}
	if _, err := flavor.Parse(userCfg.DefaultFlavor); err != nil {
		return nil, errs.Newf(errs.KindConfiguration, "settings",
			"%s: invalid %s %q", path, KeyDefaultFlavor, userCfg.DefaultFlavor)
	}

	return userCfg, nil
}

// Save writes the settings file under cfg.
func (c *Config) Save(cfg *config.Config) error {
	return c.saveToPath(cfg.SettingsFile)
}

// saveToPath writes settings to a specific file path (for testing).
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Flavor returns DefaultFlavor parsed, falling back to vanilla.
func (c *Config) Flavor() flavor.Flavor {
	f, err := flavor.Parse(c.DefaultFlavor)
	if err != nil {
		return flavor.Vanilla
	}
	return f
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case KeyDefaultFlavor:
		return c.DefaultFlavor, true
	case KeyProgress:
		return strconv.FormatBool(c.Progress), true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case KeyDefaultFlavor:
		f, err := flavor.Parse(strings.ToLower(value))
		if err != nil {
			return errs.Newf(errs.KindValidation, "settings",
				"invalid value for %s: must be vanilla or paper", KeyDefaultFlavor)
		}
		c.DefaultFlavor = f.String()
		return nil
	case KeyProgress:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errs.Newf(errs.KindValidation, "settings",
				"invalid value for %s: must be true or false", KeyProgress)
		}
		c.Progress = b
		return nil
	default:
		return errs.Newf(errs.KindValidation, "settings", "unknown config key: %s", key)
	}
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		KeyDefaultFlavor: "Flavor used when --paper is not given (vanilla/paper)",
		KeyProgress:      "Show a progress bar while downloading (true/false)",
	}
}

// SortedKeys returns the configurable keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(AvailableKeys()))
	for k := range AvailableKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
