package snark

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/filecoin-project/snark-task-server/snark/prover"
)

// Executor is the Task Executor: a single long-lived worker that waits on
// a one-shot signal channel of task_ids and drives the external proof
// engine on the slot's behalf (spec section 4.2). Only one Executor is
// ever run per Slot; the slot's single-task invariant makes further
// serialization unnecessary.
type Executor struct {
	slot   *Slot
	runCh  <-chan string
	prover prover.Prover
	logger hclog.Logger
}

// NewExecutor constructs the Task Executor. runCh must be the same
// channel passed as the send side to NewSlot.
func NewExecutor(slot *Slot, runCh <-chan string, p prover.Prover, logger hclog.Logger) *Executor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{
		slot:   slot,
		runCh:  runCh,
		prover: p,
		logger: logger.Named("executor"),
	}
}

// Run blocks, servicing run signals until ctx is done. It is meant to be
// run in its own goroutine by the Lifecycle Supervisor.
func (e *Executor) Run(ctx context.Context) error {
	for {
		select {
		case taskID, open := <-e.runCh:
			if !open {
				return nil
			}
			e.handleSignal(ctx, taskID)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handleSignal implements spec section 4.2 steps 1-6.
func (e *Executor) handleSignal(ctx context.Context, taskID string) {
	snapshot, ok := e.slot.beginExecution(taskID)
	if !ok {
		e.logger.Debug("dropping spurious or stale run signal", "task_id", taskID)
		return
	}

	log := e.logger.With("task_id", taskID)
	log.Info("proving task")

	result, err := e.prover.Prove(ctx, snapshot.VanillaProof, snapshot.PubIn, snapshot.PostConfig, snapshot.ReplicasLen)
	if err != nil {
		log.Warn("prove failed", "error", err)
		e.slot.failTask(taskID, err.Error())
		return
	}

	log.Info("prove succeeded", "result_bytes", len(result))
	e.slot.completeTask(taskID, result)
}
