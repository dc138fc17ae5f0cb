package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/app"
)

func newActionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List registered actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := opts.deps(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			registry, err := app.BuildRegistry(deps)
			if err != nil {
				return err
			}
			for _, name := range registry.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
