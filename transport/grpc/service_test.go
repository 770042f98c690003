package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shoenig/test/must"
	"github.com/shoenig/test/wait"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/filecoin-project/snark-task-server/snark"
	"github.com/filecoin-project/snark-task-server/snark/prover"
)

// errResultNotReady signals wait.ErrorFunc to keep polling; it carries no
// information beyond "not yet".
var errResultNotReady = errors.New("result not ready")

func newTestService(t *testing.T) (*Service, *snark.Slot) {
	t.Helper()
	cfg := snark.DefaultConfig()
	runCh := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	slot := snark.NewSlot(cfg, runCh, ctx, nil)

	exec := snark.NewExecutor(slot, runCh, &prover.Mock{}, nil)
	go exec.Run(ctx)

	return NewService(slot, nil), slot
}

func TestService_LockServerIfFree_ReportsObservedStatus(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.LockServerIfFree(context.Background(), &GetWorkerStatusRequest{TaskID: "A"})
	must.NoError(t, err)
	must.Eq(t, "Free", resp.Msg)

	resp, err = svc.LockServerIfFree(context.Background(), &GetWorkerStatusRequest{TaskID: "B"})
	must.NoError(t, err)
	must.Eq(t, "Locked", resp.Msg)
}

func TestService_LockServerIfFree_EmptyTaskIDIsInvalidArgument(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.LockServerIfFree(context.Background(), &GetWorkerStatusRequest{TaskID: ""})
	must.Error(t, err)
	must.Eq(t, codes.InvalidArgument, status.Code(err))
}

func TestService_DoSnarkTask_WrongTaskIDIsCancelled(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.LockServerIfFree(context.Background(), &GetWorkerStatusRequest{TaskID: "A"})
	must.NoError(t, err)

	_, err = svc.DoSnarkTask(context.Background(), &SnarkTaskRequestParams{TaskID: "B"})
	must.Error(t, err)
	must.Eq(t, codes.Cancelled, status.Code(err))
}

func TestService_FullHappyPathRoundTrip(t *testing.T) {
	svc, slot := newTestService(t)
	ctx := context.Background()

	lockResp, err := svc.LockServerIfFree(ctx, &GetWorkerStatusRequest{TaskID: "A"})
	must.NoError(t, err)
	must.Eq(t, "Free", lockResp.Msg)

	submitResp, err := svc.DoSnarkTask(ctx, &SnarkTaskRequestParams{
		TaskID:       "A",
		VanillaProof: []byte{1},
		PubIn:        []byte{2},
		PostConfig:   []byte(`{}`),
		ReplicasLen:  1,
	})
	must.NoError(t, err)
	must.Eq(t, "ok", submitResp.Msg)

	must.Wait(t, wait.InitialSuccess(
		wait.ErrorFunc(func() error {
			_, task := slot.Snapshot()
			if task.TaskStatus != snark.Done {
				return errResultNotReady
			}
			return nil
		}),
		wait.Timeout(time.Second),
		wait.Gap(5*time.Millisecond),
	), must.Sprintf("executor never completed the task"))

	pollResp, err := svc.GetSnarkTaskResult(ctx, &GetTaskResultRequest{TaskID: "A"})
	must.NoError(t, err)
	must.Eq(t, "ok", pollResp.Msg)
	must.NotNil(t, pollResp.Result)

	_, err = svc.UnlockServer(ctx, &UnlockServerRequest{TaskID: "A"})
	must.Error(t, err)
	must.Eq(t, codes.Cancelled, status.Code(err))
}

func TestService_GetSnarkTaskResult_IdMismatchIsInvalidArgument(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.LockServerIfFree(ctx, &GetWorkerStatusRequest{TaskID: "A"})
	must.NoError(t, err)
	_, err = svc.DoSnarkTask(ctx, &SnarkTaskRequestParams{TaskID: "A"})
	must.NoError(t, err)

	_, err = svc.GetSnarkTaskResult(ctx, &GetTaskResultRequest{TaskID: "nope"})
	must.Error(t, err)
	must.Eq(t, codes.InvalidArgument, status.Code(err))
}

func TestService_UnlockServer_AlreadyFreeIsCancelled(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UnlockServer(context.Background(), &UnlockServerRequest{TaskID: "A"})
	must.Error(t, err)
	must.Eq(t, codes.Cancelled, status.Code(err))
}
