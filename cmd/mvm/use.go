package main

import (
	"github.com/spf13/cobra"
)

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <version>",
		Short: "Make a server version active",
		Long: `Make a server version active for its flavor, downloading it first if
needed. The concrete version is recorded, so 'mvm use latest' pins today's
newest release.

Examples:
  mvm use 1.21.4
  mvm use latest --paper`,
		Args:        usageArgs(cobra.ExactArgs(1)),
		Annotations: map[string]string{annotationInstalls: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			f := selectFlavor(cmd, a.settings)
			setErrorContext(f, args[0])

			res, err := a.manager.Use(cmd.Context(), f, args[0])
			if err != nil {
				return err
			}

			if res.Downloaded {
				printInfof("Installed %s %s\n", f, res.Version)
			}
			printInfof("Now using %s %s\n", f, res.Version)
			return nil
		},
	}
}
