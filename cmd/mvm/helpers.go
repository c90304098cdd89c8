package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/catalog"
	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errmsg"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/install"
	"github.com/tsukumogami/mvm/internal/log"
	"github.com/tsukumogami/mvm/internal/manager"
	"github.com/tsukumogami/mvm/internal/progress"
	"github.com/tsukumogami/mvm/internal/userconfig"
)

// errorContext is filled in by commands so printError can tailor
// suggestions to the flavor and version involved.
var errorContext *errmsg.ErrorContext

// printInfo prints an informational message unless quiet mode is enabled
func printInfo(a ...any) {
	if !quietFlag {
		fmt.Fprintln(stdout, a...)
	}
}

// printInfof prints a formatted informational message unless quiet mode is enabled
func printInfof(format string, a ...any) {
	if !quietFlag {
		fmt.Fprintf(stdout, format, a...)
	}
}

// printResult prints command output that scripts consume; --quiet does not
// suppress it.
func printResult(a ...any) {
	fmt.Fprintln(stdout, a...)
}

// app bundles what a command needs to run.
type app struct {
	config   *config.Config
	settings *userconfig.Config
	manager  *manager.Manager
}

func newApp() (*app, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, err
	}
	settings, err := userconfig.Load(cfg)
	if err != nil {
		return nil, err
	}

	logger := log.Default()
	storeOpts := []install.Option{install.WithLogger(logger)}
	if settings.Progress && !quietFlag && progress.ShouldShowProgress() {
		storeOpts = append(storeOpts, install.WithProgress(stderr))
	}

	cat := catalog.New(catalog.WithLogger(logger))
	store := install.New(cfg, storeOpts...)
	return &app{
		config:   cfg,
		settings: settings,
		manager:  manager.New(cat, store, manager.WithLogger(logger)),
	}, nil
}

// selectFlavor returns the flavor a command operates on. An explicit
// --paper (or --paper=false) wins over the default_flavor setting.
func selectFlavor(cmd *cobra.Command, settings *userconfig.Config) flavor.Flavor {
	if cmd.Flags().Changed("paper") {
		return flavor.FromPaperFlag(paperFlag)
	}
	if settings != nil {
		return settings.Flavor()
	}
	return flavor.Vanilla
}

// setErrorContext records what a command was working on for printError.
func setErrorContext(f flavor.Flavor, version string) {
	errorContext = &errmsg.ErrorContext{Flavor: f, Version: version}
}
