// Command snark-task-server runs the proof-compute offload server: a
// single-slot, time-bounded task lifecycle controller exposed over gRPC.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"

	"github.com/filecoin-project/snark-task-server/command"
)

// Version is the server's release version, overridden at build time via
// -ldflags.
var Version = "0.1.0-dev"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("snark-task-server", Version)
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"agent": func() (cli.Command, error) {
			return &command.AgentCommand{Ui: ui}, nil
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}
