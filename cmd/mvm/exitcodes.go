package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/errs"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitVersionNotFound indicates the version was not found
	ExitVersionNotFound = 4

	// ExitNetwork indicates a network error
	ExitNetwork = 5

	// ExitInstallFailed indicates installation failed
	ExitInstallFailed = 6

	// ExitConfiguration indicates the environment cannot support mvm
	ExitConfiguration = 7

	// ExitDataIntegrity indicates the upstream catalog returned unusable data
	ExitDataIntegrity = 8
)

// annotationInstalls marks commands whose unclassified failures are
// reported as ExitInstallFailed.
const annotationInstalls = "mvm/installs"

// usageError marks a command-line mistake: wrong arguments or flags.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its failures exit with
// ExitUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// exitCodeFor maps an error to the process exit code. cmd is the command
// that ran, used for the install fallback.
func exitCodeFor(err error, cmd *cobra.Command) int {
	if kind, ok := errs.KindOf(err); ok {
		switch {
		case kind.IsNetwork():
			return ExitNetwork
		case kind == errs.KindNotFound:
			return ExitVersionNotFound
		case kind == errs.KindValidation:
			return ExitUsage
		case kind == errs.KindConfiguration:
			return ExitConfiguration
		case kind == errs.KindDataIntegrity:
			return ExitDataIntegrity
		}
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	if cmd != nil && cmd.Annotations[annotationInstalls] == "true" {
		return ExitInstallFailed
	}
	return ExitGeneral
}

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
