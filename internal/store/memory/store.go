// Package memory holds the in-memory Task Store. A store is owned by one
// goroutine; it does no locking.
package memory

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gosuda/todo/internal/domain"
)

type TaskStore struct {
	tasks  map[int]*domain.Task
	nextID int
}

// New returns an empty store whose first allocated ID is 1.
func New() *TaskStore {
	return &TaskStore{
		tasks:  make(map[int]*domain.Task),
		nextID: 1,
	}
}

// Create assigns the next ID and inserts the task. Candidate fields are
// validated upstream by the service.
func (s *TaskStore) Create(n domain.NewTask) *domain.Task {
	t := &domain.Task{
		ID:        s.nextID,
		Title:     n.Title,
		Status:    domain.TaskStatusOpen,
		CreatedAt: n.CreatedAt.UTC(),
		Due:       n.Due,
		Priority:  n.Priority,
		Tags:      n.Tags,
	}
	t = t.Clone()
	s.tasks[t.ID] = t
	s.nextID++

	return t.Clone()
}

func (s *TaskStore) Get(id int) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("memory.TaskStore.Get: %w", &domain.NotFoundError{ID: id})
	}
	return t.Clone(), nil
}

// Update applies patch to a copy of the task, validates the result as a
// whole and only then commits it. On any error the stored task is unchanged.
func (s *TaskStore) Update(id int, patch domain.TaskPatch) (*domain.Task, error) {
	cur, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("memory.TaskStore.Update: %w", &domain.NotFoundError{ID: id})
	}

	next := cur.Clone()
	if err := patch.Apply(next); err != nil {
		return nil, fmt.Errorf("memory.TaskStore.Update: %w", err)
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("memory.TaskStore.Update: %w", err)
	}

	s.tasks[id] = next
	return next.Clone(), nil
}

func (s *TaskStore) Delete(id int) error {
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("memory.TaskStore.Delete: %w", &domain.NotFoundError{ID: id})
	}
	delete(s.tasks, id)
	return nil
}

// ClearDone removes every done task and returns how many were removed.
func (s *TaskStore) ClearDone() int {
	removed := 0
	for id, t := range s.tasks {
		if t.Status == domain.TaskStatusDone {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed
}

// List returns copies of the matching tasks in the requested order.
func (s *TaskStore) List(q domain.ListQuery) []*domain.Task {
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !q.Status.Match(t.Status) {
			continue
		}
		if q.Tag != "" && !t.HasTag(q.Tag) {
			continue
		}
		out = append(out, t.Clone())
	}

	slices.SortFunc(out, comparator(q.Sort))
	return out
}

// comparator returns a total order for key. Every order ends on ID so
// repeated listings are identical.
func comparator(key domain.SortKey) func(a, b *domain.Task) int {
	switch key {
	case domain.SortDue:
		return func(a, b *domain.Task) int {
			switch {
			case a.Due != nil && b.Due != nil:
				if a.Due.Before(*b.Due) {
					return -1
				}
				if b.Due.Before(*a.Due) {
					return 1
				}
			case a.Due != nil:
				return -1
			case b.Due != nil:
				return 1
			}
			return cmp.Compare(a.ID, b.ID)
		}
	case domain.SortPriority:
		return func(a, b *domain.Task) int {
			return cmp.Or(
				cmp.Compare(a.Priority.Rank(), b.Priority.Rank()),
				cmp.Compare(a.ID, b.ID),
			)
		}
	default:
		return func(a, b *domain.Task) int {
			return cmp.Or(
				a.CreatedAt.Compare(b.CreatedAt),
				cmp.Compare(a.ID, b.ID),
			)
		}
	}
}
