// Package grpc is the RPC Facade (spec section 4.3): it exposes
// SnarkTaskService over google.golang.org/grpc and translates each of the
// four RPCs into a single Slot State Machine call, shaping the outcome
// into the response fields and status codes spec section 6 and 7 define.
//
// The wire messages below mirror proto/snark/v1/snark.proto field for
// field; see codec.go for how they are put on the wire without a
// protoc-generated marshaler.
package grpc

// GetWorkerStatusRequest is the LockServerIfFree request.
type GetWorkerStatusRequest struct {
	TaskID string `json:"task_id"`
}

// SnarkTaskRequestParams is the DoSnarkTask request.
type SnarkTaskRequestParams struct {
	TaskID       string `json:"task_id"`
	VanillaProof []byte `json:"vanilla_proof"`
	PubIn        []byte `json:"pub_in"`
	PostConfig   []byte `json:"post_config"`
	ReplicasLen  uint32 `json:"replicas_len"`
}

// GetTaskResultRequest is the GetSnarkTaskResult request.
type GetTaskResultRequest struct {
	TaskID string `json:"task_id"`
}

// GetTaskResultResponse is the GetSnarkTaskResult response.
type GetTaskResultResponse struct {
	Msg    string `json:"msg"`
	Result []byte `json:"result"`
}

// UnlockServerRequest is the UnlockServer request.
type UnlockServerRequest struct {
	TaskID string `json:"task_id"`
}

// BaseResponse is the response shape shared by LockServerIfFree,
// DoSnarkTask, and UnlockServer.
type BaseResponse struct {
	Msg string `json:"msg"`
}
