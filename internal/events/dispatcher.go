package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/observability"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher allows typed event publication and subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(kind Kind, handler EventHandler) (unsubscribe func())
}

type registration struct {
	id      uint64
	handler EventHandler
}

// inMemoryDispatcher is a synchronous, in-process dispatcher.
type inMemoryDispatcher struct {
	logger  *zap.Logger
	metrics *observability.Metrics

	mu        sync.RWMutex
	nextID    uint64
	listeners map[Kind][]registration
}

// Option customizes the dispatcher.
type Option func(*inMemoryDispatcher)

func WithLogger(logger *zap.Logger) Option {
	return func(d *inMemoryDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(d *inMemoryDispatcher) {
		d.metrics = metrics
	}
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(opts ...Option) Dispatcher {
	d := &inMemoryDispatcher{
		logger:    zap.NewNop(),
		listeners: make(map[Kind][]registration),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish invokes the handlers registered for the event kind at call time,
// in subscription order. A failing or panicking handler is logged and does
// not stop delivery to the others.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("publish: nil event")
	}

	d.mu.RLock()
	handlers := append([]registration{}, d.listeners[event.Kind()]...)
	d.mu.RUnlock()

	d.metrics.RecordDomainEvent(string(event.Kind()), event.Action())
	for _, reg := range handlers {
		if err := d.deliver(ctx, reg.handler, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("kind", string(event.Kind())),
				zap.String("event_id", event.Metadata().ID),
				zap.Error(err))
		}
	}
	return nil
}

func (d *inMemoryDispatcher) deliver(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

// Subscribe registers a handler for the given kind. The returned function
// removes it; calling it again is a no-op.
func (d *inMemoryDispatcher) Subscribe(kind Kind, handler EventHandler) func() {
	if !knownKind(kind) {
		d.logger.Warn("subscribing to an unknown event kind", zap.String("kind", string(kind)))
	}

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners[kind] = append(d.listeners[kind], registration{id: id, handler: handler})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			regs := d.listeners[kind]
			for i, reg := range regs {
				if reg.id == id {
					d.listeners[kind] = append(regs[:i:i], regs[i+1:]...)
					return
				}
			}
		})
	}
}

// OnFavoriteChanged subscribes a handler typed to FavoriteChanged.
func OnFavoriteChanged(d Dispatcher, fn func(context.Context, FavoriteChanged) error) func() {
	return d.Subscribe(KindFavoriteChanged, func(ctx context.Context, e Event) error {
		fav, ok := e.(FavoriteChanged)
		if !ok {
			return fmt.Errorf("unexpected %T on %s", e, KindFavoriteChanged)
		}
		return fn(ctx, fav)
	})
}

// OnReviewChanged subscribes a handler typed to ReviewChanged.
func OnReviewChanged(d Dispatcher, fn func(context.Context, ReviewChanged) error) func() {
	return d.Subscribe(KindReviewChanged, func(ctx context.Context, e Event) error {
		review, ok := e.(ReviewChanged)
		if !ok {
			return fmt.Errorf("unexpected %T on %s", e, KindReviewChanged)
		}
		return fn(ctx, review)
	})
}

func knownKind(kind Kind) bool {
	for _, k := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
