package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/poolserve/internal/models"
	"github.com/kubev2v/poolserve/pkg/client"
	"github.com/kubev2v/poolserve/pkg/scheduler"
)

func NewStatusCommand() *cobra.Command {
	var (
		adminAddress string
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the worker pool status of a running poolserve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client.NewClient(adminAddress, timeout)
			if err != nil {
				return err
			}
			status, err := c.PoolStatus(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminAddress, flagAdminAddress, "127.0.0.1:8080", "Address of the admin API")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")
	return cmd
}

func printStatus(w io.Writer, status *models.PoolStatus) {
	fmt.Fprintf(w, "workers   %d (busy %d, idle %d)\n", status.Workers, status.Busy, status.Idle)
	fmt.Fprintf(w, "queued    %d\n", status.Queued)
	fmt.Fprintf(w, "submitted %d\n", status.Submitted)
	fmt.Fprintf(w, "executed  %d\n", status.Executed)
	fmt.Fprintf(w, "panicked  %d\n", status.Panicked)
	fmt.Fprintf(w, "discarded %d\n", status.Discarded)

	for _, s := range status.States {
		state := s.State
		switch scheduler.WorkerState(s.State) {
		case scheduler.WorkerStateExecuting:
			state = color.YellowString("%s", s.State)
		case scheduler.WorkerStateWaiting:
			state = color.GreenString("%s", s.State)
		case scheduler.WorkerStateStopped:
			state = color.RedString("%s", s.State)
		}
		fmt.Fprintf(w, "  worker %-3d %s\n", s.ID, state)
	}
}
