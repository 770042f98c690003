package snark

// ServerStatus is the tagged state of the single task slot.
type ServerStatus int

const (
	// Free means no client holds the slot.
	Free ServerStatus = iota
	// Locked means a client reserved the slot but has not submitted work.
	Locked
	// Working means work has been submitted; the task is executing, done,
	// or failed awaiting pickup.
	Working
	// Unknown is terminal; the slot never recovers from it without a
	// process restart.
	Unknown
)

func (s ServerStatus) String() string {
	switch s {
	case Free:
		return "Free"
	case Locked:
		return "Locked"
	case Working:
		return "Working"
	case Unknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// TaskStatus is the tagged state of the task currently owning the slot.
type TaskStatus int

const (
	// Ready means the task was submitted and is queued for the executor.
	Ready TaskStatus = iota
	// TaskWorking means the executor is running the task.
	TaskWorking
	// Done means the result bytes are available.
	Done
	// Failed means an error string is available.
	Failed
	// Returned means the result was already delivered to the client; this
	// is bookkeeping only, set in the same critical section that frees the
	// slot and resets the task, so no observer sees it.
	Returned
)

func (s TaskStatus) String() string {
	switch s {
	case Ready:
		return "Ready"
	case TaskWorking:
		return "Working"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	case Returned:
		return "Returned"
	default:
		return "Invalid"
	}
}
