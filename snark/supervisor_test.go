package snark

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/shoenig/test/must"

	"github.com/filecoin-project/snark-task-server/snark/prover"
)

// fakeRPCServer is a minimal RPCServer double: Serve ignores the listener
// and blocks until GracefulStop releases it, so tests can drive
// the supervisor's teardown path without a real gRPC server.
type fakeRPCServer struct {
	mu      sync.Mutex
	stopped chan struct{}
}

func newFakeRPCServer() *fakeRPCServer {
	return &fakeRPCServer{stopped: make(chan struct{})}
}

func (f *fakeRPCServer) Serve(lis net.Listener) error {
	<-f.stopped
	return nil
}

func (f *fakeRPCServer) GracefulStop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.stopped:
	default:
		close(f.stopped)
	}
}

func newTestSupervisor(t *testing.T) (*Supervisor, *fakeRPCServer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Port = "0"
	cfg.ExitTimeoutAfterTaskDone = 30 * time.Millisecond

	sup := NewSupervisor(cfg, &prover.Mock{}, nil)
	server := newFakeRPCServer()
	sup.AttachServer(server)
	return sup, server
}

func TestSupervisor_IdleShutdownAfterTaskCompletion(t *testing.T) {
	sup, _ := newTestSupervisor(t)

	_, err := sup.Slot().LockIfFree("A")
	must.NoError(t, err)
	must.NoError(t, sup.Slot().SubmitTask(TaskParams{TaskID: "A", PostConfig: []byte(`{}`)}))

	done := make(chan error, 1)
	go func() { done <- sup.Run(context.Background()) }()

	// Drive the task to completion so hasCompletedTask is set, then let
	// GetResult free the slot; from there the idle watcher should fire.
	var result []byte
	for i := 0; i < 200; i++ {
		result, err = sup.Slot().GetResult("A")
		if err == nil && result != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	must.NotNil(t, result)

	select {
	case err := <-done:
		must.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down after idle timeout")
	}
}

func TestSupervisor_ExternalCancelShutsDown(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down after context cancellation")
	}
}

func TestSupervisor_RunWithoutAttachedServerErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = "0"
	sup := NewSupervisor(cfg, &prover.Mock{}, nil)

	err := sup.Run(context.Background())
	must.Error(t, err)
}
