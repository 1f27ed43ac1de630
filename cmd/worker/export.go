package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msgtobala/user-story-generator/internal/export"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Write a project's stories to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Projects.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = export.FileName(p)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteProject(f, p, time.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d stories to %s\n", len(p.Stories), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <project name>_user_stories.xlsx)")
	return cmd
}
