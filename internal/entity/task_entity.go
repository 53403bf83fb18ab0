package entity

// TaskStatus mirrors the backend job states. Transitions are
// forward-only; a task reaches a terminal status exactly once.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusStarted TaskStatus = "STARTED"
	TaskStatusSuccess TaskStatus = "SUCCESS"
	TaskStatusFailure TaskStatus = "FAILURE"
)

// Terminal reports whether the status ends the task's lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailure
}

// Task tracks one deferred backend job.
type Task struct {
	Id     string
	Status TaskStatus
	Error  string
}
