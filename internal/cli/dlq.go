package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl"
)

func newDLQCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and manage dead-lettered jobs",
	}
	cmd.AddCommand(newDLQListCmd(e), newDLQRetryCmd(e), newDLQPurgeCmd(e))
	return cmd
}

func newDLQListCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered jobs, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			jobs, err := queuectl.NewDLQ(st).List(context.Background(), limit)
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			out := cmd.OutOrStdout()
			for _, jb := range jobs {
				lastErr := ""
				if jb.LastError != nil {
					lastErr = *jb.LastError
				}
				fmt.Fprintf(out, "%s\t%s\tattempts=%d\tlast_error=%s\n", jb.ID, jb.Command, jb.Attempts, lastErr)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")
	return cmd
}

func newDLQRetryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Promote a dead-lettered job back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			found, err := queuectl.NewDLQ(st).Retry(context.Background(), args[0])
			if err != nil {
				return fail(ExitStoreWrite, "%v", err)
			}
			if !found {
				return fail(ExitMalformed, "no dead job with id %s", args[0])
			}
			return nil
		},
	}
}

func newDLQPurgeCmd(e *env) *cobra.Command {
	var olderThanDays int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete dead-lettered jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			dlq := queuectl.NewDLQ(st)
			var n int64
			if olderThanDays > 0 {
				n, err = dlq.PurgeOlderThan(context.Background(), time.Duration(olderThanDays)*24*time.Hour)
			} else {
				n, err = dlq.Purge(context.Background(), nil)
			}
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", queuectl.FormatInt(n))
			return nil
		},
	}
	cmd.Flags().IntVar(&olderThanDays, "older-than-days", 0, "only purge jobs dead-lettered at least this many days ago (0 = purge all)")
	return cmd
}
