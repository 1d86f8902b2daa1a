package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change queue configuration",
	}
	cmd.AddCommand(newConfigGetCmd(e), newConfigSetCmd(e))
	return cmd
}

func newConfigGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one configuration value, or all of them if key is omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			cfg := config.New(st)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				v, err := cfg.Get(context.Background(), args[0])
				if err != nil {
					if errors.Is(err, config.ErrUnknownKey) {
						return fail(ExitMalformed, "%v", err)
					}
					return fail(ExitInternal, "%v", err)
				}
				fmt.Fprintln(out, v)
				return nil
			}

			all, err := cfg.All(context.Background())
			if err != nil {
				return fail(ExitInternal, "%v", err)
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s=%s\n", k, all[k])
			}
			return nil
		},
	}
}

func newConfigSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return fail(ExitIOError, "open database: %v", err)
			}
			cfg := config.New(st)
			if err := cfg.Set(context.Background(), args[0], args[1]); err != nil {
				if errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidValue) {
					return fail(ExitMalformed, "%v", err)
				}
				return fail(ExitStoreWrite, "%v", err)
			}
			return nil
		},
	}
}
