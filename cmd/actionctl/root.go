// Package main is actionctl, a command line companion to the action server.
// It lists actions, runs one against a tracker snapshot, and validates
// content documents without starting the server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/app"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
)

// newRootCmd builds the command tree. Output goes to out, logs to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "actionctl",
		Short:         "Inspect and run SoulPath chatbot actions",
		Long:          `actionctl runs the same actions as the action server, locally, against a tracker snapshot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&opts.contentPath, "content", "", "content document to use instead of the embedded one")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for action logs (written to stderr)")

	root.AddCommand(
		newActionsCmd(&opts),
		newDispatchCmd(&opts),
		newValidateCmd(),
	)
	return root
}

type rootOptions struct {
	contentPath string
	logLevel    string
}

// deps builds module dependencies the way the server does, minus metrics and
// the audio store.
func (o *rootOptions) deps(errOut io.Writer) (app.ModuleDeps, error) {
	docs, err := content.Load(o.contentPath)
	if err != nil {
		return app.ModuleDeps{}, err
	}
	return app.ModuleDeps{
		Content: docs,
		Logger:  logger.NewWithWriter(o.logLevel, errOut),
	}, nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
