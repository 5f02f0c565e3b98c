package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"voxtype/internal/domain"
	"voxtype/internal/ipc"
)

func newTriggerCmd(opts *rootOptions, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			socket, err := opts.resolveSocket()
			if err != nil {
				return err
			}
			resp, err := ipc.Send(socket, action)
			if err != nil {
				return err
			}
			if resp.Status != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatStatus(*resp.Status))
			}
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			socket, err := opts.resolveSocket()
			if err != nil {
				return err
			}
			resp, err := ipc.Send(socket, ipc.ActionStatus)
			if err != nil {
				return err
			}
			if resp.Status == nil {
				return fmt.Errorf("daemon returned no status")
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatStatus(*resp.Status))
			return nil
		},
	}
}

func formatStatus(status domain.Status) string {
	line := string(status.State)
	if status.Mode != domain.RecordingModeNone {
		line += " (" + string(status.Mode) + ")"
	}
	if status.InputDevice != "" && status.Active {
		line += " device=" + status.InputDevice
	}
	if status.Message != "" {
		line += ": " + status.Message
	}
	return line
}
