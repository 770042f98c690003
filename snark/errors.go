package snark

import "errors"

// Sentinel errors returned by the slot state machine. The RPC Facade
// (transport/grpc) maps these to gRPC status codes per spec section 7;
// nothing in this package depends on gRPC.
//
// The taxonomy mirrors the original Rust implementation's error.rs: a
// policy violation (wrong status, wrong id) is distinct from a task that
// ran and failed, which is distinct from internal corruption.
var (
	// ErrTaskIDEmpty is a precondition violation: LockServerIfFree requires
	// a non-empty task_id.
	ErrTaskIDEmpty = errors.New("task_id must not be empty")

	// ErrLockedByAnotherTask is returned by SubmitTask and UnlockServer
	// when the slot is Locked by a different task_id.
	ErrLockedByAnotherTask = errors.New("server was locked by another task")

	// ErrShouldBeLockedFirst is returned by SubmitTask when the slot is
	// Free.
	ErrShouldBeLockedFirst = errors.New("server should be locked before a task is submitted")

	// ErrWorkingOnAnotherTask is returned by SubmitTask when the slot is
	// already Working.
	ErrWorkingOnAnotherTask = errors.New("server is working on another task")

	// ErrUnusable is returned by SubmitTask when the slot is Unknown.
	ErrUnusable = errors.New("server is unusable")

	// ErrExecutorUnavailable is returned by SubmitTask when the run signal
	// could not be delivered because the executor is shutting down.
	ErrExecutorUnavailable = errors.New("task executor is shutting down")

	// ErrNoTaskRunning is returned by GetResult when the slot is not
	// Working.
	ErrNoTaskRunning = errors.New("no task running on this server")

	// ErrInvalidTaskID is returned by GetResult when the caller's task_id
	// does not match the task_id of the Working task. SubmitTask and
	// UnlockServer report a mismatch as ErrLockedByAnotherTask instead.
	ErrInvalidTaskID = errors.New("invalid parameters: task_id does not match the current task")

	// ErrAlreadyFree is returned by UnlockServer when the slot is already
	// Free.
	ErrAlreadyFree = errors.New("server is already free")

	// ErrUnlockInvalidState is returned by UnlockServer when the slot is
	// Working or Unknown; unlock is only valid from Locked.
	ErrUnlockInvalidState = errors.New("unlock is only valid when the server is locked")

	// ErrCorrupted is returned when the mutex guarding ServerInfo is
	// observed poisoned (a goroutine panicked while holding it). The slot
	// transitions to Unknown and never recovers without a restart.
	ErrCorrupted = errors.New("server state is corrupted")
)

// TaskFailedError wraps the prover's error string for a task that reached
// TaskStatus Failed, matching the original's TaskFailedWithError variant.
type TaskFailedError struct {
	Err string
}

func (e *TaskFailedError) Error() string {
	return "task failed with error: " + e.Err
}
