package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
)

// SnarkTaskServiceServer is the server-side interface for
// snark.v1.SnarkTaskService, hand-written in the shape protoc-gen-go-grpc
// would emit from proto/snark/v1/snark.proto.
type SnarkTaskServiceServer interface {
	LockServerIfFree(context.Context, *GetWorkerStatusRequest) (*BaseResponse, error)
	DoSnarkTask(context.Context, *SnarkTaskRequestParams) (*BaseResponse, error)
	GetSnarkTaskResult(context.Context, *GetTaskResultRequest) (*GetTaskResultResponse, error)
	UnlockServer(context.Context, *UnlockServerRequest) (*BaseResponse, error)
}

// RegisterSnarkTaskServiceServer registers srv's methods against the
// service descriptor below, the same call shape generated code exposes.
func RegisterSnarkTaskServiceServer(s *grpclib.Server, srv SnarkTaskServiceServer) {
	s.RegisterService(&snarkTaskServiceDesc, srv)
}

func snarkTaskServiceLockServerIfFreeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetWorkerStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnarkTaskServiceServer).LockServerIfFree(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/snark.v1.SnarkTaskService/LockServerIfFree"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SnarkTaskServiceServer).LockServerIfFree(ctx, req.(*GetWorkerStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func snarkTaskServiceDoSnarkTaskHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(SnarkTaskRequestParams)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnarkTaskServiceServer).DoSnarkTask(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/snark.v1.SnarkTaskService/DoSnarkTask"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SnarkTaskServiceServer).DoSnarkTask(ctx, req.(*SnarkTaskRequestParams))
	}
	return interceptor(ctx, in, info, handler)
}

func snarkTaskServiceGetSnarkTaskResultHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetTaskResultRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnarkTaskServiceServer).GetSnarkTaskResult(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/snark.v1.SnarkTaskService/GetSnarkTaskResult"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SnarkTaskServiceServer).GetSnarkTaskResult(ctx, req.(*GetTaskResultRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func snarkTaskServiceUnlockServerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(UnlockServerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnarkTaskServiceServer).UnlockServer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/snark.v1.SnarkTaskService/UnlockServer"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SnarkTaskServiceServer).UnlockServer(ctx, req.(*UnlockServerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// snarkTaskServiceDesc is the grpc.ServiceDesc protoc-gen-go-grpc would
// generate for snark.v1.SnarkTaskService.
var snarkTaskServiceDesc = grpclib.ServiceDesc{
	ServiceName: "snark.v1.SnarkTaskService",
	HandlerType: (*SnarkTaskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "LockServerIfFree", Handler: snarkTaskServiceLockServerIfFreeHandler},
		{MethodName: "DoSnarkTask", Handler: snarkTaskServiceDoSnarkTaskHandler},
		{MethodName: "GetSnarkTaskResult", Handler: snarkTaskServiceGetSnarkTaskResultHandler},
		{MethodName: "UnlockServer", Handler: snarkTaskServiceUnlockServerHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "proto/snark/v1/snark.proto",
}
