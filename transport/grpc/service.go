package grpc

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"
	uuid "github.com/hashicorp/go-uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/filecoin-project/snark-task-server/snark"
)

// Service adapts SnarkTaskService RPCs onto a *snark.Slot, per spec
// section 4.3's table. It holds no state of its own beyond the slot
// handle and a logger.
type Service struct {
	slot   *snark.Slot
	logger hclog.Logger
}

// NewService builds the RPC Facade over slot.
func NewService(slot *snark.Slot, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{slot: slot, logger: logger.Named("rpc")}
}

// callLogger tags a log line with a per-call correlation id. The id is
// purely an internal trace aid for stitching together a single RPC's log
// lines; it is never returned to the client and is unrelated to the
// client-chosen task_id.
func (s *Service) callLogger() hclog.Logger {
	id, err := uuid.GenerateUUID()
	if err != nil {
		// uuid.GenerateUUID only fails if crypto/rand is exhausted; fall
		// back to an unlabeled logger rather than fail the RPC over a
		// logging nicety.
		return s.logger
	}
	return s.logger.With("call_id", id)
}

func (s *Service) LockServerIfFree(ctx context.Context, req *GetWorkerStatusRequest) (*BaseResponse, error) {
	log := s.callLogger()
	observed, err := s.slot.LockIfFree(req.TaskID)
	if err != nil {
		return nil, mapError(log, err)
	}
	log.Debug("lock_if_free", "task_id", req.TaskID, "observed", observed.String())
	return &BaseResponse{Msg: observed.String()}, nil
}

func (s *Service) DoSnarkTask(ctx context.Context, req *SnarkTaskRequestParams) (*BaseResponse, error) {
	log := s.callLogger()
	params := snark.TaskParams{
		TaskID:       req.TaskID,
		VanillaProof: req.VanillaProof,
		PubIn:        req.PubIn,
		PostConfig:   req.PostConfig,
		ReplicasLen:  req.ReplicasLen,
	}
	if err := s.slot.SubmitTask(params); err != nil {
		return nil, mapError(log, err)
	}
	log.Debug("submit_task", "task_id", req.TaskID)
	return &BaseResponse{Msg: "ok"}, nil
}

func (s *Service) GetSnarkTaskResult(ctx context.Context, req *GetTaskResultRequest) (*GetTaskResultResponse, error) {
	log := s.callLogger()
	result, err := s.slot.GetResult(req.TaskID)
	if err != nil {
		return nil, mapError(log, err)
	}
	if result == nil {
		return &GetTaskResultResponse{Msg: "Working", Result: []byte{}}, nil
	}
	log.Debug("get_result delivered", "task_id", req.TaskID, "result_bytes", len(result))
	return &GetTaskResultResponse{Msg: "ok", Result: result}, nil
}

func (s *Service) UnlockServer(ctx context.Context, req *UnlockServerRequest) (*BaseResponse, error) {
	log := s.callLogger()
	if err := s.slot.Unlock(req.TaskID); err != nil {
		return nil, mapError(log, err)
	}
	log.Debug("unlock", "task_id", req.TaskID)
	return &BaseResponse{Msg: "ok"}, nil
}

// mapError implements spec section 6-7's status code taxonomy: policy
// errors become CANCELLED, id mismatches become INVALID_ARGUMENT, and
// corruption becomes ABORTED. A delivered Failed task also becomes
// ABORTED, carrying the prover's error string — the source returns
// Status::aborted for this case (original_source/src/server.rs), which
// SPEC_FULL.md documents following over spec.md's literal CANCELLED text.
func mapError(log hclog.Logger, err error) error {
	var taskFailed *snark.TaskFailedError
	switch {
	case errors.As(err, &taskFailed):
		return status.Error(codes.Aborted, taskFailed.Error())

	case errors.Is(err, snark.ErrTaskIDEmpty), errors.Is(err, snark.ErrInvalidTaskID):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, snark.ErrCorrupted):
		log.Error("slot reported corruption", "error", err)
		return status.Error(codes.Aborted, err.Error())

	case errors.Is(err, snark.ErrLockedByAnotherTask),
		errors.Is(err, snark.ErrShouldBeLockedFirst),
		errors.Is(err, snark.ErrWorkingOnAnotherTask),
		errors.Is(err, snark.ErrUnusable),
		errors.Is(err, snark.ErrNoTaskRunning),
		errors.Is(err, snark.ErrAlreadyFree),
		errors.Is(err, snark.ErrUnlockInvalidState),
		errors.Is(err, snark.ErrExecutorUnavailable):
		return status.Error(codes.Cancelled, err.Error())

	default:
		log.Error("unmapped slot error", "error", err)
		return status.Error(codes.Unknown, err.Error())
	}
}
