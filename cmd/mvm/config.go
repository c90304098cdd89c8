package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/userconfig"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mvm settings",
		Long: `Manage mvm settings.

Settings are stored in $MVM_HOME/settings.toml.

Available settings:
` + availableKeysHelp() + `
Examples:
  mvm config get default_flavor
  mvm config set default_flavor paper`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, settings, err := loadSettings()
				if err != nil {
					return err
				}

				value, ok := settings.Get(args[0])
				if !ok {
					return unknownKeyError(args[0])
				}
				printResult(value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, settings, err := loadSettings()
				if err != nil {
					return err
				}
				if _, ok := settings.Get(args[0]); !ok {
					return unknownKeyError(args[0])
				}
				if err := settings.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := cfg.EnsureHome(); err != nil {
					return err
				}
				if err := settings.Save(cfg); err != nil {
					return err
				}

				value, _ := settings.Get(args[0])
				printInfof("%s = %s\n", strings.ToLower(args[0]), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all configuration values",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, settings, err := loadSettings()
				if err != nil {
					return err
				}
				for _, key := range userconfig.SortedKeys() {
					value, _ := settings.Get(key)
					printResult(fmt.Sprintf("%s = %s", key, value))
				}
				return nil
			},
		},
	)
	return configCmd
}

func loadSettings() (*config.Config, *userconfig.Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, nil, err
	}
	settings, err := userconfig.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, settings, nil
}

func unknownKeyError(key string) error {
	return errs.Newf(errs.KindValidation, "config",
		"unknown config key: %s\n\nAvailable keys:\n%s", key, strings.TrimRight(availableKeysHelp(), "\n"))
}

func availableKeysHelp() string {
	var sb strings.Builder
	keys := userconfig.AvailableKeys()
	for _, k := range userconfig.SortedKeys() {
		fmt.Fprintf(&sb, "  %-16s %s\n", k, keys[k])
	}
	return sb.String()
}
