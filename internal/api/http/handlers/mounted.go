package handlers

import (
	"context"
	"sync"

	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
)

// mountedView caches the data of one protected view for the current session.
// The cache is dropped when a subscribed event kind is published, when the
// guard stops rendering the view (logout or role loss), and whenever the
// session snapshot changes version.
type mountedView[T any] struct {
	src  guard.Source
	load func(context.Context) (T, error)

	mu      sync.Mutex
	data    T
	version uint64
	loaded  bool
	gen     uint64

	stops []func()
}

func mountView[T any](src guard.Source, dispatcher events.Dispatcher, req guard.Requirement, location string, load func(context.Context) (T, error), kinds ...events.Kind) *mountedView[T] {
	v := &mountedView[T]{src: src, load: load}
	for _, kind := range kinds {
		if dispatcher == nil {
			break
		}
		v.stops = append(v.stops, dispatcher.Subscribe(kind, func(context.Context, events.Event) error {
			v.purge()
			return nil
		}))
	}
	_, stop := guard.Watch(src, req, location, func(outcome guard.Outcome) {
		if outcome.Decision != guard.Render {
			v.purge()
		}
	})
	v.stops = append(v.stops, stop)
	return v
}

// Get returns the cached data or loads it. Failed loads are not cached.
func (v *mountedView[T]) Get(ctx context.Context) (T, error) {
	version := v.src.Current().Version()

	v.mu.Lock()
	if v.loaded && v.version == version {
		data := v.data
		v.mu.Unlock()
		return data, nil
	}
	gen := v.gen
	v.mu.Unlock()

	data, err := v.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	v.mu.Lock()
	if v.gen == gen {
		v.data, v.version, v.loaded = data, version, true
	}
	v.mu.Unlock()
	return data, nil
}

// Loaded reports whether data is cached.
func (v *mountedView[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *mountedView[T]) purge() {
	v.mu.Lock()
	var zero T
	v.data, v.loaded = zero, false
	v.gen++
	v.mu.Unlock()
}

// Close unmounts the view.
func (v *mountedView[T]) Close() {
	for _, stop := range v.stops {
		stop()
	}
	v.stops = nil
}
