package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/progress"
)

func newVersionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List versions published upstream",
		Long: `List the versions the upstream catalog publishes, newest first: the
Mojang manifest for vanilla (releases and snapshots), the PaperMC API
for Paper.

Examples:
  mvm versions --limit 10
  mvm versions --paper`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return usageError{fmt.Errorf("--limit must not be negative")}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			f := selectFlavor(cmd, a.settings)
			setErrorContext(f, "")

			spinner := progress.NewSpinner(stderr)
			if !quietFlag {
				spinner.Start(fmt.Sprintf("Fetching %s versions...", f))
			}
			versions, err := a.manager.Available(cmd.Context(), f)
			spinner.Stop()
			if err != nil {
				return err
			}

			if limit > 0 && len(versions) > limit {
				versions = versions[:limit]
			}
			for _, v := range versions {
				printResult(v)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N versions (0 for all)")
	return cmd
}
