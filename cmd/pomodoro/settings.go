package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pomodoro/internal/app"
	"pomodoro/internal/settings"
)

func settingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the timer durations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the durations in minutes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				snapshot := ctrl.Settings()
				for _, kind := range []settings.Kind{settings.Focus, settings.ShortBreak, settings.LongBreak} {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d min\n", kind.Label(), snapshot.Minutes(kind))
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <focus|short|long> <minutes>",
		Short: "Change one duration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := settings.ParseKind(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctrl *app.Controller) error {
				return ctrl.UpdateSetting(kind, args[1])
			})
		},
	})
	return cmd
}
