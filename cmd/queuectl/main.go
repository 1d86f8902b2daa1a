// Command queuectl is a durable, single-host background job queue: a CLI
// for enqueuing shell-command jobs, running a worker pool against an
// embedded SQLite store, and administering the dead-letter queue.
package main

import (
	"fmt"
	"os"

	"github.com/aidarkhanov/queuectl/internal/cli"
)

func main() {
	installDir := os.Getenv("QUEUECTL_HOME")
	if installDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "queuectl: resolve home directory:", err)
			os.Exit(cli.ExitInternal)
		}
		installDir = home + "/.queuectl"
	}
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "queuectl:", err)
		os.Exit(cli.ExitIOError)
	}

	root := cli.NewRoot(installDir)
	err := root.Execute()
	os.Exit(cli.ExitCode(err))
}
