package service

import (
	"context"

	"github.com/gosuda/todo/internal/domain"
)

// TaskStore is the storage surface the service needs.
// *memory.TaskStore satisfies this interface.
type TaskStore interface {
	Create(n domain.NewTask) *domain.Task
	Get(id int) (*domain.Task, error)
	Update(id int, patch domain.TaskPatch) (*domain.Task, error)
	Delete(id int) error
	ClearDone() int
	List(q domain.ListQuery) []*domain.Task
}

// EventPublisher receives committed task events.
// *notify.Notifier and *redis.Publisher satisfy this interface.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.TaskEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.TaskEvent) error { return nil }
