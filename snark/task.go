package snark

// TaskInfo is the record owned by the slot for the task currently holding
// it, or its zero value when the slot is Free.
type TaskInfo struct {
	// TaskID is an opaque client-chosen identifier, unique per lifetime of
	// the slot.
	TaskID string

	// VanillaProof, PubIn, and PostConfig are opaque byte blobs forwarded
	// to the prover unparsed.
	VanillaProof []byte
	PubIn        []byte
	PostConfig   []byte

	// ReplicasLen is forwarded to the prover.
	ReplicasLen uint32

	// Result holds the prover's output once TaskStatus is Done.
	Result []byte

	TaskStatus TaskStatus
}

// TaskParams is what a client supplies to DoSnarkTask.
type TaskParams struct {
	TaskID       string
	VanillaProof []byte
	PubIn        []byte
	PostConfig   []byte
	ReplicasLen  uint32
}

func newTaskInfo(taskID string) TaskInfo {
	return TaskInfo{TaskID: taskID, TaskStatus: Ready}
}

func taskInfoFromParams(p TaskParams) TaskInfo {
	return TaskInfo{
		TaskID:       p.TaskID,
		VanillaProof: p.VanillaProof,
		PubIn:        p.PubIn,
		PostConfig:   p.PostConfig,
		ReplicasLen:  p.ReplicasLen,
		TaskStatus:   Ready,
	}
}
