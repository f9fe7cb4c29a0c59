// Package cli wires the cobra command surface over the application container.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostpilot/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		ConfigPath: opts.ConfigPath,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		return nil, err
	}
	container.Dispatch.Prompter = NewPrompter(nil, nil)

	root := &cobra.Command{
		Use:   "hostpilot",
		Short: "hostpilot - execution routing for host automation",
		Long: "hostpilot decides how a request should act on the host - visible\n" +
			"terminal, GUI automation, or generic code execution - and dispatches\n" +
			"emitted code blocks through the chosen channel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		container.Close()
	}

	root.AddCommand(newPlanCommand(container))
	root.AddCommand(newRunCommand(container))
	root.AddCommand(newWindowsCommand(container))
	root.AddCommand(newTerminalCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newDemoCommand(container))
	return root, nil
}
