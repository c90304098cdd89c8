package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsukumogami/mvm/internal/flavor"
)

func newListCmd() *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed server versions",
		Long: `List installed server versions, newest first. The active version is
marked with '*'.

Examples:
  mvm list
  mvm list --paper
  mvm list --all`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			flavors := []flavor.Flavor{selectFlavor(cmd, a.settings)}
			if allFlag {
				flavors = flavor.All()
			}

			active := color.New(color.FgGreen, color.Bold).SprintFunc()
			for i, f := range flavors {
				setErrorContext(f, "")
				versions, err := a.manager.List(cmd.Context(), f)
				if err != nil {
					return err
				}

				if allFlag {
					if i > 0 {
						printInfo()
					}
					printInfof("%s:\n", f)
				}
				if len(versions) == 0 {
					printInfof("  No %s versions installed.\n", f)
					continue
				}
				for _, v := range versions {
					if v.Active {
						printResult("* " + active(v.Version))
					} else {
						printResult("  " + v.Version)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "List both flavors")
	return cmd
}
