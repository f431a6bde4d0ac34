package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/events"
)

const defaultActivityCapacity = 20

// Activity is a human readable trace of a domain event.
type Activity struct {
	EventID   string
	Kind      events.Kind
	Action    string
	ListingID string
	ReviewID  string
	At        time.Time
}

// ActivityService records domain events for the log and the home view.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	capacity   int

	mu     sync.Mutex
	recent []Activity
}

// NewActivityService creates the service. capacity <= 0 uses the default.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityService{dispatcher: dispatcher, logger: logger, capacity: capacity}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	events.OnFavoriteChanged(a.dispatcher, a.handleFavoriteChanged)
	events.OnReviewChanged(a.dispatcher, a.handleReviewChanged)
}

func (a *ActivityService) handleFavoriteChanged(_ context.Context, event events.FavoriteChanged) error {
	a.logger.Info("FavoriteChanged",
		zap.String("event_id", event.ID),
		zap.String("listing_id", event.ListingID),
		zap.String("action", event.Action()))
	a.record(Activity{
		EventID:   event.ID,
		Kind:      event.Kind(),
		Action:    event.Action(),
		ListingID: event.ListingID,
		At:        event.Timestamp,
	})
	return nil
}

func (a *ActivityService) handleReviewChanged(_ context.Context, event events.ReviewChanged) error {
	a.logger.Info("ReviewChanged",
		zap.String("event_id", event.ID),
		zap.String("review_id", event.ReviewID),
		zap.String("listing_id", event.ListingID),
		zap.String("action", event.Action()))
	a.record(Activity{
		EventID:   event.ID,
		Kind:      event.Kind(),
		Action:    event.Action(),
		ListingID: event.ListingID,
		ReviewID:  event.ReviewID,
		At:        event.Timestamp,
	})
	return nil
}

func (a *ActivityService) record(entry Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = append(a.recent, entry)
	if over := len(a.recent) - a.capacity; over > 0 {
		a.recent = append([]Activity(nil), a.recent[over:]...)
	}
}

// Recent returns the recorded activity, newest first.
func (a *ActivityService) Recent() []Activity {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Activity, len(a.recent))
	for i, entry := range a.recent {
		out[len(a.recent)-1-i] = entry
	}
	return out
}

// Clear forgets the recorded activity, used when the session changes hands.
func (a *ActivityService) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = nil
}
