package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/app"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
)

func newDispatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch ACTION [tracker.json|-]",
		Short: "Run one action against a tracker snapshot",
		Long: `Runs ACTION exactly as the server would and prints the webhook reply.
The tracker is read from the named file, or from stdin when the argument is
"-". Without a tracker argument the action runs against an empty tracker.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := readTracker(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			deps, err := opts.deps(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			registry, err := app.BuildRegistry(deps)
			if err != nil {
				return err
			}
			dispatcher := action.NewDispatcher(action.DispatcherConfig{
				Registry: registry,
				Logger:   deps.Logger,
			})

			result := dispatcher.Dispatch(cmd.Context(), args[0], tracker)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}
}

func readTracker(stdin io.Reader, args []string) (*dialogue.Tracker, error) {
	if len(args) == 0 {
		return &dialogue.Tracker{}, nil
	}

	var r io.Reader = stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open tracker: %w", err)
		}
		defer f.Close()
		r = f
	}

	var tracker dialogue.Tracker
	if err := json.NewDecoder(r).Decode(&tracker); err != nil {
		return nil, fmt.Errorf("decode tracker: %w", err)
	}
	return &tracker, nil
}
