// Package service turns raw user input into validated task mutations.
// Both front ends go through it; nothing else touches the store.
package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/todo/internal/domain"
)

type Tasks struct {
	store  TaskStore
	events EventPublisher
	now    func() time.Time
	source uuid.UUID
	logger zerolog.Logger
}

// Option configures optional Tasks parameters.
type Option func(*Tasks)

// WithClock replaces time.Now as the source of created_at and event times.
func WithClock(now func() time.Time) Option {
	return func(s *Tasks) {
		s.now = now
	}
}

// WithEvents sets the publisher committed mutations are reported to.
func WithEvents(p EventPublisher) Option {
	return func(s *Tasks) {
		s.events = p
	}
}

// WithSource sets the ID stamped on published events.
func WithSource(id uuid.UUID) Option {
	return func(s *Tasks) {
		s.source = id
	}
}

// WithLogger sets the logger used for mutation and publish records.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Tasks) {
		s.logger = l
	}
}

func New(store TaskStore, opts ...Option) *Tasks {
	s := &Tasks{
		store:  store,
		events: nopPublisher{},
		now:    time.Now,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddInput carries raw add arguments. Nil pointers mean the option was not given.
type AddInput struct {
	Title    string
	Due      *string
	Priority *string
	Tags     *string
}

// UpdateInput carries raw update arguments as three-way fields.
// Clearing the title is a validation error.
type UpdateInput struct {
	Title    domain.Field[string]
	Due      domain.Field[string]
	Priority domain.Field[string]
	Tags     domain.Field[string]
}

func (s *Tasks) Add(ctx context.Context, in AddInput) (*domain.Task, error) {
	title, err := domain.ValidateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	n := domain.NewTask{
		Title:     title,
		CreatedAt: s.now().UTC(),
		Tags:      []string{},
	}
	if in.Due != nil {
		d, err := domain.ParseDueDate(*in.Due)
		if err != nil {
			return nil, err
		}
		n.Due = &d
	}
	if in.Priority != nil {
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		n.Priority = p
	}
	if in.Tags != nil {
		n.Tags = domain.ParseTags(*in.Tags)
	}

	t := s.store.Create(n)
	s.logger.Debug().Int("task_id", t.ID).Str("op", "add").Msg("task created")
	s.publish(ctx, domain.TaskEvent{Type: domain.EventTaskCreated, TaskID: t.ID, Task: t})

	return t, nil
}

func (s *Tasks) Get(_ context.Context, id int) (*domain.Task, error) {
	return s.store.Get(id)
}

// List never fails; an unmatched query yields an empty slice.
func (s *Tasks) List(_ context.Context, q domain.ListQuery) []*domain.Task {
	return s.store.List(q)
}

// CountDone returns how many tasks clear-done would remove right now.
func (s *Tasks) CountDone(_ context.Context) int {
	return len(s.store.List(domain.ListQuery{Status: domain.StatusFilterDone}))
}

// MarkDone sets the task to done. Marking a done task again is a no-op.
func (s *Tasks) MarkDone(ctx context.Context, id int) (*domain.Task, error) {
	return s.setStatus(ctx, id, domain.TaskStatusDone, domain.EventTaskDone)
}

// Reopen sets the task back to open. Reopening an open task is a no-op.
func (s *Tasks) Reopen(ctx context.Context, id int) (*domain.Task, error) {
	return s.setStatus(ctx, id, domain.TaskStatusOpen, domain.EventTaskReopened)
}

func (s *Tasks) setStatus(ctx context.Context, id int, status domain.TaskStatus, evType domain.EventType) (*domain.Task, error) {
	cur, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if cur.Status == status {
		return cur, nil
	}

	t, err := s.store.Update(id, domain.TaskPatch{Status: domain.Set(status)})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("task_id", id).Str("status", string(status)).Msg("task status changed")
	s.publish(ctx, domain.TaskEvent{Type: evType, TaskID: id, Task: t})

	return t, nil
}

// Update validates every present field first and then commits them in a
// single store update. An unset field keeps its stored value.
func (s *Tasks) Update(ctx context.Context, id int, in UpdateInput) (*domain.Task, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}

	t, err := s.store.Update(id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("task_id", id).Str("op", "update").Msg("task updated")
	if !patch.Empty() {
		s.publish(ctx, domain.TaskEvent{Type: domain.EventTaskUpdated, TaskID: id, Task: t})
	}

	return t, nil
}

func buildPatch(in UpdateInput) (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	switch in.Title.State() {
	case domain.FieldClear:
		return patch, domain.NewValidationError("title cannot be empty")
	case domain.FieldSet:
		raw, _ := in.Title.Value()
		title, err := domain.ValidateTitle(raw)
		if err != nil {
			return patch, err
		}
		patch.Title = domain.Set(title)
	}

	switch in.Due.State() {
	case domain.FieldClear:
		patch.Due = domain.Clear[civil.Date]()
	case domain.FieldSet:
		raw, _ := in.Due.Value()
		d, err := domain.ParseDueDate(raw)
		if err != nil {
			return patch, err
		}
		patch.Due = domain.Set(d)
	}

	switch in.Priority.State() {
	case domain.FieldClear:
		patch.Priority = domain.Clear[domain.Priority]()
	case domain.FieldSet:
		raw, _ := in.Priority.Value()
		p, err := domain.ParsePriority(raw)
		if err != nil {
			return patch, err
		}
		patch.Priority = domain.Set(p)
	}

	switch in.Tags.State() {
	case domain.FieldClear:
		patch.Tags = domain.Clear[[]string]()
	case domain.FieldSet:
		raw, _ := in.Tags.Value()
		patch.Tags = domain.Set(domain.ParseTags(raw))
	}

	return patch, nil
}

// Delete removes the task and returns its last state.
func (s *Tasks) Delete(ctx context.Context, id int) (*domain.Task, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(id); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("task_id", id).Str("op", "delete").Msg("task deleted")
	s.publish(ctx, domain.TaskEvent{Type: domain.EventTaskDeleted, TaskID: id})

	return t, nil
}

// ClearDone removes every done task and returns the count removed.
func (s *Tasks) ClearDone(ctx context.Context) int {
	n := s.store.ClearDone()

	s.logger.Debug().Int("count", n).Str("op", "clear-done").Msg("done tasks cleared")
	if n > 0 {
		s.publish(ctx, domain.TaskEvent{Type: domain.EventTasksCleared, Count: n})
	}

	return n
}

// publish is best-effort: a failing publisher never fails the mutation.
func (s *Tasks) publish(ctx context.Context, ev domain.TaskEvent) {
	ev.Source = s.source
	ev.At = s.now().UTC()

	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(fmt.Errorf("service.Tasks.publish: %w", err)).Str("event", string(ev.Type)).Msg("task event not published")
	}
}
