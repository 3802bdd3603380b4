package session

import (
	"context"

	"github.com/gosuda/todo/internal/domain"
	"github.com/gosuda/todo/internal/service"
)

// Service is the Command Service surface the engine drives.
// *service.Tasks satisfies this interface.
type Service interface {
	Add(ctx context.Context, in service.AddInput) (*domain.Task, error)
	Get(ctx context.Context, id int) (*domain.Task, error)
	List(ctx context.Context, q domain.ListQuery) []*domain.Task
	CountDone(ctx context.Context) int
	MarkDone(ctx context.Context, id int) (*domain.Task, error)
	Reopen(ctx context.Context, id int) (*domain.Task, error)
	Update(ctx context.Context, id int, in service.UpdateInput) (*domain.Task, error)
	Delete(ctx context.Context, id int) (*domain.Task, error)
	ClearDone(ctx context.Context) int
}
