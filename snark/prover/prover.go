// Package prover defines the one external collaborator the slot state
// machine delegates to: the proof engine that compresses a vanilla proof
// into a zk-SNARK. Wiring a real prover (bellperson/storage-proofs or
// equivalent) is out of scope per spec section 1 — this package only
// defines the boundary and a deterministic test double.
package prover

import "context"

// Prover compresses a vanilla proof into a zk-SNARK. All arguments are
// opaque byte blobs the caller does not parse; replicasLen is forwarded
// unparsed from the client. The call is expected to be CPU/GPU-bound and
// may take minutes — callers must not hold any lock across it.
type Prover interface {
	Prove(ctx context.Context, vanillaProof, pubIn, postConfig []byte, replicasLen uint32) ([]byte, error)
}

// Func adapts a plain function to the Prover interface.
type Func func(ctx context.Context, vanillaProof, pubIn, postConfig []byte, replicasLen uint32) ([]byte, error)

func (f Func) Prove(ctx context.Context, vanillaProof, pubIn, postConfig []byte, replicasLen uint32) ([]byte, error) {
	return f(ctx, vanillaProof, pubIn, postConfig, replicasLen)
}
