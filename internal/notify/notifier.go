// Package notify fans task events out to every registered sink.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gosuda/todo/internal/domain"
)

// SinkRegistry lists and resolves sinks by name.
// *Registry satisfies this interface.
type SinkRegistry interface {
	Names() []string
	Get(name string) (Sink, bool)
}

// Notifier delivers each event to every sink in name order. A failing sink
// does not stop delivery to the others.
type Notifier struct {
	sinks SinkRegistry
}

// New creates a Notifier over the given registry.
func New(sinks SinkRegistry) *Notifier {
	return &Notifier{sinks: sinks}
}

// Publish sends ev to all sinks and joins their failures.
func (n *Notifier) Publish(ctx context.Context, ev domain.TaskEvent) error {
	var errs []error
	for _, name := range n.sinks.Names() {
		if err := n.PublishVia(ctx, name, ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify.Notifier.Publish: %w", errors.Join(errs...))
	}
	return nil
}

// PublishVia sends ev to the named sink only.
func (n *Notifier) PublishVia(ctx context.Context, name string, ev domain.TaskEvent) error {
	s, ok := n.sinks.Get(name)
	if !ok {
		return fmt.Errorf("notify.Notifier.PublishVia: sink %q: %w", name, ErrSinkNotFound)
	}
	if err := s.Publish(ctx, ev); err != nil {
		return fmt.Errorf("notify.Notifier.PublishVia: %s: %w", name, err)
	}
	return nil
}

// ErrSinkNotFound is returned when a sink name is not registered.
var ErrSinkNotFound = errors.New("notify: sink not found") //nolint:gochecknoglobals // sentinel error

// LogSink writes each event as one structured log record.
type LogSink struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewLogSink creates a LogSink that logs at the given level.
func NewLogSink(logger zerolog.Logger, level zerolog.Level) *LogSink {
	return &LogSink{logger: logger, level: level}
}

func (s *LogSink) Publish(_ context.Context, ev domain.TaskEvent) error {
	e := s.logger.WithLevel(s.level).
		Str("event", string(ev.Type)).
		Str("source", ev.Source.String()).
		Time("at", ev.At)
	if ev.TaskID != 0 {
		e = e.Int("task_id", ev.TaskID)
	}
	if ev.Type == domain.EventTasksCleared {
		e = e.Int("count", ev.Count)
	}
	e.Msg("task event")
	return nil
}
