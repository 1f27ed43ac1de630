package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worker",
		Short: "Operational commands for the user story generator",
		Long: `worker runs one-off maintenance tasks against the configured backends:
exporting a project to a spreadsheet and reconciling the module vocabulary.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(syncModulesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
