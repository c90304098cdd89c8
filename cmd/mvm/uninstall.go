package main

import (
	"github.com/spf13/cobra"
)

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <version>",
		Aliases: []string{"remove"},
		Short:   "Delete an installed server version",
		Long: `Delete an installed server version. The active-version record is not
changed; if the removed version was active, 'mvm which' reports it missing
until another version is selected with 'mvm use'.

Examples:
  mvm uninstall 1.20.4
  mvm uninstall 1.21.3 --paper`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			f := selectFlavor(cmd, a.settings)
			setErrorContext(f, args[0])

			if err := a.manager.Uninstall(cmd.Context(), f, args[0]); err != nil {
				return err
			}
			printInfof("Removed %s %s\n", f, args[0])
			return nil
		},
	}
}
