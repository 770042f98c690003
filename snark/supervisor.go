package snark

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/filecoin-project/snark-task-server/snark/prover"
)

// maxIdlePollInterval caps how coarsely the Lifecycle Supervisor checks
// whether the slot has been Free long enough to exit. It is unrelated to
// any spec-mandated timeout; it only bounds how late the exit can be
// noticed relative to server_exit_time_out_after_task_done.
const maxIdlePollInterval = time.Second

// errIdleShutdown is returned by watchIdle to cancel the run group's
// context via errgroup's error-triggered cancellation; it is not a real
// failure and Run filters it back out before returning.
var errIdleShutdown = errors.New("supervisor: idle shutdown threshold reached")

// RPCServer is the subset of *grpc.Server the Lifecycle Supervisor needs.
// It is expressed as an interface here (rather than importing
// transport/grpc directly) because transport/grpc imports this package to
// build its facade; depending on the concrete type back would cycle.
type RPCServer interface {
	Serve(lis net.Listener) error
	GracefulStop()
}

// Supervisor is the Lifecycle Supervisor (spec section 4.4): it wires the
// executor's run-signal channel, serves RPCs, and watches the slot to
// decide when to shut the process down.
type Supervisor struct {
	cfg    *Config
	slot   *Slot
	exec   *Executor
	server RPCServer
	logger hclog.Logger

	// shutdownCancel cancels the context the Slot was built with
	// (Slot.shutdownCtx). Run calls it once on the way down so any
	// SubmitTask blocked handing off to the executor unblocks with
	// ErrExecutorUnavailable instead of waiting forever.
	shutdownCancel context.CancelFunc
}

// NewSupervisor wires a Slot and Executor sharing a run-signal channel and
// a shutdown context, returning a Supervisor ready to Run once an
// RPCServer (built against its Slot) is attached with AttachServer.
func NewSupervisor(cfg *Config, p prover.Prover, logger hclog.Logger) *Supervisor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("supervisor")

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	runCh := make(chan string, 1)

	slot := NewSlot(cfg, runCh, shutdownCtx, logger)
	exec := NewExecutor(slot, runCh, p, logger)

	return &Supervisor{
		cfg:            cfg,
		slot:           slot,
		exec:           exec,
		logger:         logger,
		shutdownCancel: shutdownCancel,
	}
}

// Slot returns the supervised Slot, for the RPC Facade to build its
// service against.
func (sup *Supervisor) Slot() *Slot { return sup.slot }

// AttachServer registers the RPC server the supervisor should serve and
// gracefully stop. It must be called before Run.
func (sup *Supervisor) AttachServer(server RPCServer) {
	sup.server = server
}

// Run binds the listener, serves RPCs, runs the executor, and watches for
// the idle-exit condition (spec section 4.4). It blocks until ctx is
// canceled, the idle-exit condition fires, or the RPC server stops on its
// own, then tears everything down and returns an aggregate error.
func (sup *Supervisor) Run(ctx context.Context) error {
	if sup.server == nil {
		return fmt.Errorf("supervisor: AttachServer must be called before Run")
	}

	lis, err := net.Listen("tcp", "0.0.0.0:"+sup.cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", sup.cfg.Port, err)
	}
	sup.logger.Info("server listening", "addr", lis.Addr().String())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return sup.exec.Run(gctx)
	})

	g.Go(func() error {
		return sup.watchIdle(gctx)
	})

	g.Go(func() error {
		err := sup.server.Serve(lis)
		// Serve returning on its own (rather than via GracefulStop) is as
		// good a shutdown trigger as the idle watcher finding one.
		cancel()
		return err
	})

	<-gctx.Done()
	sup.logger.Info("server stop listen")
	sup.shutdownCancel()
	sup.server.GracefulStop()

	var result *multierror.Error
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errIdleShutdown) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// watchIdle polls the slot and returns errIdleShutdown once the idle-exit
// condition holds, which errgroup uses to cancel gctx for every other
// goroutine in the run group. A plain nil return would not cancel
// anything — errgroup only cancels its derived context when a Go func
// returns a non-nil error.
func (sup *Supervisor) watchIdle(ctx context.Context) error {
	interval := sup.cfg.ExitTimeoutAfterTaskDone / 4
	if interval <= 0 || interval > maxIdlePollInterval {
		interval = maxIdlePollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d, free, everCompleted := sup.slot.FreeDuration()
			if free {
				setGauge("slot_free_seconds", float32(d.Seconds()))
			}
			if free && everCompleted && d >= sup.cfg.ExitTimeoutAfterTaskDone {
				sup.logger.Info("slot idle past exit timeout after task completion; shutting down",
					"idle_for", d, "exit_timeout", sup.cfg.ExitTimeoutAfterTaskDone)
				return errIdleShutdown
			}
		}
	}
}
