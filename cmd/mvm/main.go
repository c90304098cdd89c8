package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/buildinfo"
	"github.com/tsukumogami/mvm/internal/errmsg"
	"github.com/tsukumogami/mvm/internal/log"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
	paperFlag   bool

	// stdout and stderr are swapped out by tests.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mvm",
		Short: "Minecraft server version manager",
		Long: `mvm downloads Minecraft server jars and keeps track of which version
is active, separately for the vanilla server and for Paper.

Versions are plain identifiers such as 1.21.4, or one of:
  latest   the newest release the upstream catalog publishes
  recent   the version last selected with 'mvm use'

Artifacts live in $MVM_HOME (default ~/.mvm):
  <flavor>/versions/<version>/server.jar`,
		Version:       buildinfo.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDefault(log.NewCLI(stderr, determineLogLevel()))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&paperFlag, "paper", false, "Operate on Paper instead of the vanilla server")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print results and errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log catalog lookups and resolved versions")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log everything, including lock and transfer details")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(
		newInstallCmd(),
		newUseCmd(),
		newUninstallCmd(),
		newWhichCmd(),
		newListCmd(),
		newVersionsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// determineLogLevel applies the verbosity flags, then the MVM_DEBUG,
// MVM_VERBOSE and MVM_QUIET environment variables. Flags win.
func determineLogLevel() slog.Level {
	if quietFlag || verboseFlag || debugFlag {
		return log.LevelFromFlags(quietFlag, verboseFlag, debugFlag)
	}
	return log.LevelFromFlags(
		isTruthy(os.Getenv("MVM_QUIET")),
		isTruthy(os.Getenv("MVM_VERBOSE")),
		isTruthy(os.Getenv("MVM_DEBUG")),
	)
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string) int {
	errorContext = nil
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return ExitSuccess
	}

	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Error: %v\n", ue.err)
		if cmd != nil {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
		}
		return ExitUsage
	}

	printError(err)
	return exitCodeFor(err, cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	exitWithCode(code)
}

// printError prints an error to stderr with suggestions if available.
func printError(err error) {
	errmsg.Fprint(stderr, err, errorContext)
}
