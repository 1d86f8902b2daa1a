package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl"
	"github.com/aidarkhanov/queuectl/store"
)

func newEnqueueCmd(e *env) *cobra.Command {
	var maxRetries, backoffBase uint32
	var timeoutSeconds int
	var id string

	cmd := &cobra.Command{
		Use:   "enqueue <command>",
		Short: "Add a job; prints the id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}

			var spec store.JobSpec
			if !cmd.Flags().Changed("id") && len(args) == 1 {
				// A single, unquoted-by-the-shell argument is the CLI's
				// free-form "<id> <command>" convenience syntax rather
				// than a literal one-word command.
				spec = queuectl.ParseFreeForm(args[0])
			} else {
				spec = store.JobSpec{ID: id, Command: strings.Join(args, " ")}
			}
			spec.MaxRetries = maxRetries
			spec.BackoffBase = backoffBase
			if timeoutSeconds > 0 {
				spec.TimeoutSeconds = &timeoutSeconds
			}

			jobID, err := queuectl.NewEnqueuer(st).Submit(context.Background(), spec)
			if err != nil {
				if errors.Is(err, queuectl.ErrInvalidJob) || errors.Is(err, queuectl.ErrAlreadyExists) {
					return fail(ExitMalformed, "%v", err)
				}
				return fail(ExitStoreWrite, "%v", err)
			}
			cmd.Println(jobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "explicit job id (generated if omitted)")
	cmd.Flags().Uint32Var(&maxRetries, "max-retries", 3, "retries allowed after the first attempt")
	cmd.Flags().Uint32Var(&backoffBase, "backoff-base", 2, "exponential backoff base")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout-seconds", 0, "per-job execution timeout (0 = use the default)")
	return cmd
}
