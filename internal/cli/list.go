package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl/job"
)

func newListCmd(e *env) *cobra.Command {
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			s, err := job.ParseStatus(state)
			if err != nil {
				return fail(ExitMalformed, "%v", err)
			}
			jobs, err := st.List(context.Background(), s, limit)
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			out := cmd.OutOrStdout()
			for _, jb := range jobs {
				fmt.Fprintf(out, "%s\t%s\t%s\tattempts=%d\trun_at=%s\n",
					jb.ID, jb.State, jb.Command, jb.Attempts, jb.RunAt.Format("2006-01-02T15:04:05Z"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state (pending, processing, completed, dead)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")
	return cmd
}
