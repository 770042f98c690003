package command

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/cli"
	hclog "github.com/hashicorp/go-hclog"
	grpclib "google.golang.org/grpc"

	"github.com/filecoin-project/snark-task-server/snark"
	"github.com/filecoin-project/snark-task-server/snark/prover"
	grpctransport "github.com/filecoin-project/snark-task-server/transport/grpc"
)

// AgentCommand boots the proof-compute offload server: it builds a
// Config, wires the Slot State Machine, Task Executor, and RPC Facade
// through a Lifecycle Supervisor, and blocks until an OS signal or the
// supervisor's own idle-shutdown policy ends it.
type AgentCommand struct {
	Ui cli.Ui
}

func (c *AgentCommand) Synopsis() string {
	return "Run the snark task server agent"
}

func (c *AgentCommand) Help() string {
	helpText := `
Usage: snark-task-server agent [options]

  Starts the snark task server, listening for gRPC connections on the
  configured port until idle-shutdown fires or the process is signaled.

Options:

  -port=<port>
    Port to listen on. Defaults to 50051.

  -lock-timeout=<duration>
    Max time the slot may stay Locked without a submission. Defaults to 10s.

  -task-get-back-timeout=<duration>
    Max time a Done or Failed task may sit unretrieved. Defaults to 60s.

  -exit-timeout-after-task-done=<duration>
    Idle-Free duration, after at least one task has completed, before the
    process self-terminates. Defaults to 300s.

  -env-file=<path>
    Optional path to a file of SNARK_SERVER_* environment assignments that
    override the flags above.

  -log-level=<level>
    Log level: trace, debug, info, warn, error. Defaults to info.
`
	return strings.TrimSpace(helpText)
}

func (c *AgentCommand) Run(args []string) int {
	cfg := snark.DefaultConfig()

	var envFile, logLevel string
	flags := flag.NewFlagSet("agent", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	flags.StringVar(&cfg.Port, "port", cfg.Port, "")
	flags.DurationVar(&cfg.LockTimeout, "lock-timeout", cfg.LockTimeout, "")
	flags.DurationVar(&cfg.TaskGetBackTimeout, "task-get-back-timeout", cfg.TaskGetBackTimeout, "")
	flags.DurationVar(&cfg.ExitTimeoutAfterTaskDone, "exit-timeout-after-task-done", cfg.ExitTimeoutAfterTaskDone, "")
	flags.StringVar(&envFile, "env-file", "", "")
	flags.StringVar(&logLevel, "log-level", "info", "")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if envFile != "" {
		data, err := os.ReadFile(envFile)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("error reading -env-file: %s", err))
			return 1
		}
		if err := cfg.LoadEnv(data); err != nil {
			c.Ui.Error(fmt.Sprintf("error parsing -env-file: %s", err))
			return 1
		}
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "snark-task-server",
		Level: hclog.LevelFromString(logLevel),
	})

	// The real proof engine (bellperson/storage-proofs or equivalent) is
	// out of scope; the agent wires the deterministic test double so the
	// server is runnable standalone. A production build swaps this for a
	// real prover.Prover.
	sup := snark.NewSupervisor(cfg, &prover.Mock{}, logger)

	grpcServer := grpclib.NewServer()
	grpctransport.RegisterSnarkTaskServiceServer(grpcServer, grpctransport.NewService(sup.Slot(), logger))
	sup.AttachServer(grpcServer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("caught signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := sup.Run(ctx); err != nil {
		c.Ui.Error(fmt.Sprintf("server error: %s", err))
		return 1
	}
	return 0
}
