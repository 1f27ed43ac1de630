package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func syncModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-modules",
		Short: "Add module names used by templates to the module vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			added, err := app.Modules.Sync(ctx)
			if err != nil {
				return err
			}
			if len(added) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "module vocabulary is up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d modules: %s\n", len(added), strings.Join(added, ", "))
			return nil
		},
	}
}
