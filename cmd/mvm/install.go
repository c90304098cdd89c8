package main

import (
	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/catalog"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [version]",
		Short: "Download a server version",
		Long: `Download a server version without making it active.

The version defaults to 'latest'. Installing a version that is already
present does nothing and makes no network requests.

Examples:
  mvm install
  mvm install 1.21.4
  mvm install latest --paper`,
		Args:        usageArgs(cobra.MaximumNArgs(1)),
		Annotations: map[string]string{annotationInstalls: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			token := catalog.Latest
			if len(args) == 1 {
				token = args[0]
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			f := selectFlavor(cmd, a.settings)
			setErrorContext(f, token)

			res, err := a.manager.Install(cmd.Context(), f, token)
			if err != nil {
				return err
			}

			if res.Downloaded {
				printInfof("Installed %s %s\n", f, res.Version)
			} else {
				printInfof("%s %s is already installed\n", f, res.Version)
			}
			printInfof("  %s\n", res.Path)
			return nil
		},
	}
}
