package main

import (
	"github.com/spf13/cobra"

	"pomodoro/internal/tui"
)

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the timer and task list (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *options) error {
	ctrl, closeFn, err := openApp(opts)
	if err != nil {
		return err
	}
	defer closeFn()

	return tui.Run(cmd.Context(), ctrl)
}
