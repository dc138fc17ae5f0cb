package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [content.yaml]",
		Short: "Validate a content document",
		Long:  `Checks a content document against the schema. Without an argument the embedded document is checked.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source := "", "embedded content"
			if len(args) == 1 {
				path, source = args[0], args[0]
			}
			if _, err := content.Load(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is valid ✅\n", source)
			return err
		},
	}
}
