package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTaskCreated  EventType = "task.created"
	EventTaskUpdated  EventType = "task.updated"
	EventTaskDone     EventType = "task.done"
	EventTaskReopened EventType = "task.reopened"
	EventTaskDeleted  EventType = "task.deleted"
	EventTasksCleared EventType = "tasks.cleared"
)

// TaskEvent describes one committed mutation. Task is nil for deletions and
// bulk clears; Count is only set for tasks.cleared.
type TaskEvent struct {
	Type   EventType `json:"type"`
	TaskID int       `json:"task_id,omitempty"`
	Task   *Task     `json:"task,omitempty"`
	Count  int       `json:"count,omitempty"`
	Source uuid.UUID `json:"source"`
	At     time.Time `json:"at"`
}
