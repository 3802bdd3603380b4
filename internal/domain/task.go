package domain

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusOpen || s == TaskStatusDone
}

// Priority is optional on a Task; PriorityNone means no priority.
type Priority string

const (
	PriorityNone Priority = ""
	PriorityLow  Priority = "low"
	PriorityMed  Priority = "med"
	PriorityHigh Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMed, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high first, none last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMed:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Task struct {
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Status    TaskStatus  `json:"status"`
	CreatedAt time.Time   `json:"created_at"` // UTC, write-once
	Due       *civil.Date `json:"due_date,omitempty"`
	Priority  Priority    `json:"priority,omitempty"`
	Tags      []string    `json:"tags"`
}

// Clone returns a deep copy so callers never share the store's state.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	c.Tags = slices.Clone(t.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

// HasTag reports whether tag is in the task's tag list (exact, case-sensitive).
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Validate checks the whole task against the entity rules.
func (t *Task) Validate() error {
	if t.ID < 1 {
		return NewValidationError("task id must be positive, got %d", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title cannot be empty")
	}
	if strings.TrimSpace(t.Title) != t.Title {
		return NewValidationError("title must not have surrounding whitespace")
	}
	if !t.Status.Valid() {
		return NewValidationError("invalid status: %q", t.Status)
	}
	if t.CreatedAt.IsZero() {
		return NewValidationError("created_at is required")
	}
	if t.Due != nil && !t.Due.IsValid() {
		return NewValidationError("invalid due date: %s", t.Due)
	}
	if !t.Priority.Valid() {
		return NewValidationError("invalid priority: %q", t.Priority)
	}
	seen := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		if tag == "" || strings.TrimSpace(tag) != tag {
			return NewValidationError("invalid tag: %q", tag)
		}
		if _, dup := seen[tag]; dup {
			return NewValidationError("duplicate tag: %q", tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// NewTask holds the validated fields of a task about to be created.
type NewTask struct {
	Title     string
	CreatedAt time.Time
	Due       *civil.Date
	Priority  Priority
	Tags      []string
}

// TaskPatch lists the fields a partial update touches. Unset fields are left alone.
type TaskPatch struct {
	Title    Field[string]
	Status   Field[TaskStatus]
	Due      Field[civil.Date]
	Priority Field[Priority]
	Tags     Field[[]string]
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title.IsUnset() && p.Status.IsUnset() && p.Due.IsUnset() &&
		p.Priority.IsUnset() && p.Tags.IsUnset()
}

// Apply writes the patch onto t. Title and Status cannot be cleared.
func (p TaskPatch) Apply(t *Task) error {
	if p.Title.IsClear() {
		return NewValidationError("title cannot be empty")
	}
	if v, ok := p.Title.Value(); ok {
		t.Title = v
	}
	if p.Status.IsClear() {
		return NewValidationError("status cannot be cleared")
	}
	if v, ok := p.Status.Value(); ok {
		t.Status = v
	}
	if p.Due.IsClear() {
		t.Due = nil
	}
	if v, ok := p.Due.Value(); ok {
		t.Due = &v
	}
	if p.Priority.IsClear() {
		t.Priority = PriorityNone
	}
	if v, ok := p.Priority.Value(); ok {
		t.Priority = v
	}
	if p.Tags.IsClear() {
		t.Tags = []string{}
	}
	if v, ok := p.Tags.Value(); ok {
		t.Tags = append([]string{}, v...)
	}
	return nil
}
