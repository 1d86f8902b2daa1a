package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl"
	"github.com/aidarkhanov/queuectl/config"
	"github.com/aidarkhanov/queuectl/heartbeat"
	"github.com/aidarkhanov/queuectl/job"
)

// livenessGraceMultiplier bounds how many missed poll intervals the
// heartbeat file may be stale by before a worker pool is reported as not
// running, absorbing ordinary scheduling jitter without masking a
// genuinely dead pool.
const livenessGraceMultiplier = 5

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print counts per state and worker liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			counts, err := st.CountsByState(context.Background())
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			for _, s := range []job.Status{job.Pending, job.Processing, job.Completed, job.Dead} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", s.String(), queuectl.FormatInt(counts[s]))
			}

			pollMs, err := config.New(st).Get(context.Background(), config.KeyPollIntervalMs)
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			pollInterval, err := time.ParseDuration(pollMs + "ms")
			if err != nil {
				return fail(ExitInternal, "invalid %s: %v", config.KeyPollIntervalMs, err)
			}

			state := "not running"
			if heartbeat.Alive(e.heartbeatPath(), livenessGraceMultiplier*pollInterval) {
				state = "running"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", "workers", state)
			return nil
		},
	}
}
