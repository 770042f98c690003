package snark

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

// Slot is the Slot State Machine: the single concurrency unit on the
// server. It holds at most one task at a time and enforces the
// transitions and timeouts from spec section 4.1. All mutations are
// serialized by mu; every exported method is atomic under it.
type Slot struct {
	mu sync.Mutex

	status     ServerStatus
	task       TaskInfo
	lastUpdate time.Time
	lastError  string

	// hasCompletedTask and freeSince back the Lifecycle Supervisor's
	// idle-shutdown decision (spec section 4.4): the supervisor only acts
	// once at least one task has ever completed, and only after the slot
	// has been continuously Free since freeSince.
	hasCompletedTask bool
	freeSince        time.Time

	lockTimeout        time.Duration
	taskGetBackTimeout time.Duration

	// runCh is the one-shot signal channel to the Task Executor.
	// shutdownCtx being done models the channel becoming unusable because
	// the supervisor is tearing down (spec section 4.1.2's edge case); a
	// plain closed channel would risk a send-on-closed-channel panic
	// under concurrent submitters, so cancellation is used instead.
	runCh       chan<- string
	shutdownCtx context.Context

	logger hclog.Logger
}

// NewSlot constructs a Free slot. runCh is the channel the Task Executor
// reads from; shutdownCtx being Done models the executor going away.
func NewSlot(cfg *Config, runCh chan<- string, shutdownCtx context.Context, logger hclog.Logger) *Slot {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	now := time.Now()
	return &Slot{
		status:             Free,
		lastUpdate:         now,
		freeSince:          now,
		lockTimeout:        cfg.LockTimeout,
		taskGetBackTimeout: cfg.TaskGetBackTimeout,
		runCh:              runCh,
		shutdownCtx:        shutdownCtx,
		logger:             logger.Named("state"),
	}
}

// SetTimeouts overrides the lock and getback timeouts, matching the
// original's SetTimeOut/SetServerLockTimeOut setters (original_source
// src/server.rs lines 65-117), so the timeouts of an existing slot can be
// shrunk without waiting out the production defaults.
func (s *Slot) SetTimeouts(lockTimeout, taskGetBackTimeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockTimeout = lockTimeout
	s.taskGetBackTimeout = taskGetBackTimeout
}

// recoverCorruption is deferred right after mu.Unlock (so it runs first,
// while mu is still held) by LockIfFree, submitLocked, GetResult and
// Unlock. A panic while mu is held — a programmer bug, not a policy
// violation — leaves the slot Unknown rather than propagating past the
// RPC Facade as an unhandled crash, per spec section 7.
func (s *Slot) recoverCorruption(status *ServerStatus, err *error) {
	if r := recover(); r != nil {
		s.status = Unknown
		s.logger.Error("recovered panic while mutating slot state; marking Unknown", "panic", r)
		if status != nil {
			*status = Unknown
		}
		*err = ErrCorrupted
	}
}

func (s *Slot) acquire(taskID string, now time.Time) ServerStatus {
	s.task = newTaskInfo(taskID)
	s.status = Locked
	s.lastUpdate = now
	return Free
}

// LockIfFree implements spec section 4.1.1. The returned status is what
// the caller observes: Free means the caller now holds the slot.
func (s *Slot) LockIfFree(taskID string) (status ServerStatus, err error) {
	if taskID == "" {
		return Unknown, ErrTaskIDEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverCorruption(&status, &err)

	now := time.Now()

	switch s.status {
	case Free:
		return s.acquire(taskID, now), nil

	case Locked:
		if now.Sub(s.lastUpdate) > s.lockTimeout {
			s.logger.Debug("stale lock reclaimed", "new_task_id", taskID, "prior_task_id", s.task.TaskID)
			return s.acquire(taskID, now), nil
		}
		return Locked, nil

	case Working:
		stale := (s.task.TaskStatus == Done || s.task.TaskStatus == Failed) &&
			now.Sub(s.lastUpdate) >= s.taskGetBackTimeout
		if stale {
			s.logger.Debug("abandoned result discarded", "new_task_id", taskID, "prior_task_id", s.task.TaskID)
			incrCounter("result_discarded")
			return s.acquire(taskID, now), nil
		}
		return Working, nil

	default: // Unknown
		return Unknown, nil
	}
}

// SubmitTask implements spec section 4.1.2.
func (s *Slot) SubmitTask(params TaskParams) error {
	taskID, err := s.submitLocked(params)
	if err != nil {
		return err
	}

	select {
	case s.runCh <- taskID:
		return nil
	case <-s.shutdownCtx.Done():
		return ErrExecutorUnavailable
	}
}

// submitLocked performs the mutex-guarded half of SubmitTask and returns
// the task_id to signal the executor with.
func (s *Slot) submitLocked(params TaskParams) (taskID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverCorruption(nil, &err)

	switch s.status {
	case Locked:
		if s.task.TaskID != params.TaskID {
			return "", ErrLockedByAnotherTask
		}
	case Free:
		return "", ErrShouldBeLockedFirst
	case Working:
		return "", ErrWorkingOnAnotherTask
	default: // Unknown
		return "", ErrUnusable
	}

	s.task = taskInfoFromParams(params)
	s.status = Working
	s.lastUpdate = time.Now()
	return params.TaskID, nil
}

// GetResult implements spec section 4.1.3. A nil, nil return means "still
// working, poll again".
func (s *Slot) GetResult(taskID string) (result []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverCorruption(nil, &err)

	if s.status != Working {
		return nil, ErrNoTaskRunning
	}
	if taskID != s.task.TaskID {
		return nil, fmt.Errorf("%w: got %q, server holds %q", ErrInvalidTaskID, taskID, s.task.TaskID)
	}

	switch s.task.TaskStatus {
	case Done:
		result := s.task.Result
		s.task.TaskStatus = Returned
		s.freeTo(Free, time.Now())
		incrCounter("task_delivered")
		return result, nil
	case Failed:
		taskErr := &TaskFailedError{Err: s.lastError}
		s.freeTo(Free, time.Now())
		incrCounter("task_delivered_failed")
		return nil, taskErr
	default:
		return nil, nil
	}
}

// Unlock implements spec section 4.1.4.
func (s *Slot) Unlock(taskID string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverCorruption(nil, &err)

	switch s.status {
	case Free:
		return ErrAlreadyFree
	case Locked:
		if s.task.TaskID != taskID {
			return ErrLockedByAnotherTask
		}
		s.freeTo(Free, time.Now())
		return nil
	default: // Working, Unknown
		return ErrUnlockInvalidState
	}
}

// freeTo transitions the slot to Free and resets the task, recording
// freeSince for the Lifecycle Supervisor. Callers must hold mu.
func (s *Slot) freeTo(status ServerStatus, now time.Time) {
	s.status = status
	s.task = TaskInfo{}
	s.lastUpdate = now
	s.freeSince = now
}

// beginExecution is called by the Task Executor on receiving a run signal.
// It verifies the slot is still Working on a Ready task for taskID and, if
// so, flips the task to TaskWorking and returns a snapshot for the
// executor to run outside the lock. ok is false for a spurious signal
// (spec section 4.2 step 2).
func (s *Slot) beginExecution(taskID string) (snapshot TaskInfo, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Working || s.task.TaskID != taskID || s.task.TaskStatus != Ready {
		return TaskInfo{}, false
	}
	s.task.TaskStatus = TaskWorking
	s.lastUpdate = time.Now()
	return s.task, true
}

// completeTask is called by the Task Executor after a successful prove.
// If the slot no longer holds taskID, the result is discarded silently per
// spec section 4.2 step 5. LockIfFree never reclaims a Working slot whose
// task is still Ready or TaskWorking, so this guard only drops a write
// that arrives after the task reached Done or Failed and was reclaimed.
func (s *Slot) completeTask(taskID string, result []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task.TaskID != taskID {
		incrCounter("result_discarded_stale_owner")
		return
	}
	s.task.Result = result
	s.task.TaskStatus = Done
	s.lastUpdate = time.Now()
	s.hasCompletedTask = true
	incrCounter("task_done")
}

// failTask is called by the Task Executor after a failed prove. Same
// ownership check as completeTask.
func (s *Slot) failTask(taskID string, taskErr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task.TaskID != taskID {
		incrCounter("result_discarded_stale_owner")
		return
	}
	s.task.TaskStatus = Failed
	s.lastError = taskErr
	s.lastUpdate = time.Now()
	s.hasCompletedTask = true
	incrCounter("task_failed")
}

// Snapshot returns the current status and a copy of the task info, for
// observers (the Lifecycle Supervisor, diagnostics) that must not mutate
// state.
func (s *Slot) Snapshot() (ServerStatus, TaskInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.task
}

// FreeDuration reports how long the slot has been continuously Free, and
// whether at least one task has ever completed — the two conditions spec
// section 4.4 requires before the Lifecycle Supervisor may shut the
// process down. ok is false if the slot is not currently Free.
func (s *Slot) FreeDuration() (d time.Duration, ok bool, everCompleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Free {
		return 0, false, s.hasCompletedTask
	}
	return time.Since(s.freeSince), true, s.hasCompletedTask
}
