package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aidarkhanov/queuectl/config"
	"github.com/aidarkhanov/queuectl/store/sqlstore"
)

func newInitDBCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the store schema and seed config.json on first run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.db == nil {
				db, err := sqlstore.Open(e.dbPath())
				if err != nil {
					return fail(ExitIOError, "open database: %v", err)
				}
				e.db = db
			}
			if err := sqlstore.InitSchema(context.Background(), e.db); err != nil {
				return fail(ExitIOError, "init schema: %v", err)
			}

			seed, err := config.LoadFile(e.configFilePath())
			if err != nil {
				return fail(ExitIOError, "read config file: %v", err)
			}
			if len(seed) > 0 {
				st := sqlstore.New(e.db)
				if err := config.New(st).SeedFromFile(context.Background(), seed); err != nil {
					return fail(ExitInternal, "seed config: %v", err)
				}
			}

			cmd.Println("ok")
			return nil
		},
	}
}
