package notify

import (
	"context"
	"slices"

	"github.com/gosuda/todo/internal/domain"
)

// Sink receives task events.
// *redis.Publisher and *LogSink satisfy this interface.
type Sink interface {
	Publish(ctx context.Context, ev domain.TaskEvent) error
}

// Registry is a simple map-based set of named sinks.
type Registry struct {
	sinks map[string]Sink
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// Register adds a sink under the given name, replacing any previous one.
func (r *Registry) Register(name string, s Sink) {
	r.sinks[name] = s
}

// Get returns the sink registered under name, or false if none is.
func (r *Registry) Get(name string) (Sink, bool) {
	s, ok := r.sinks[name]
	return s, ok
}

// Names returns the registered sink names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sinks))
	for name := range r.sinks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
