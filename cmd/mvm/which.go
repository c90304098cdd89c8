package main

import (
	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/manager"
)

func newWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which [version]",
		Short: "Print the path of an installed server jar",
		Long: `Print the path of an installed server jar and nothing else, for use in
scripts. The version defaults to 'recent', the active version.

Examples:
  java -jar "$(mvm which)" nogui
  mvm which 1.20.4 --paper`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := manager.Recent
			if len(args) == 1 {
				token = args[0]
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			f := selectFlavor(cmd, a.settings)
			setErrorContext(f, token)

			path, err := a.manager.Which(cmd.Context(), f, token)
			if err != nil {
				return err
			}
			printResult(path)
			return nil
		},
	}
}
