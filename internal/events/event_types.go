package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the closed set of domain event kinds.
type Kind string

const (
	KindFavoriteChanged Kind = "favorite-changed"
	KindReviewChanged   Kind = "review-changed"
)

// Kinds lists every kind, in a stable order.
func Kinds() []Kind {
	return []Kind{KindFavoriteChanged, KindReviewChanged}
}

// Event is implemented only by the concrete event types of this package.
// Subscribers switch on the concrete type.
type Event interface {
	Kind() Kind
	Metadata() Meta
	// Action is the advisory change description, e.g. "added".
	Action() string
	isEvent()
}

// Meta is common to every event.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func newMeta() Meta {
	return Meta{ID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

// FavoriteAction describes a favorite mutation.
type FavoriteAction string

const (
	FavoriteAdded   FavoriteAction = "added"
	FavoriteRemoved FavoriteAction = "removed"
)

// FavoriteChanged is published after a favorite was added or removed.
type FavoriteChanged struct {
	Meta
	ListingID string         `json:"listing_id"`
	Change    FavoriteAction `json:"action"`
}

// NewFavoriteChanged stamps a new event.
func NewFavoriteChanged(listingID string, action FavoriteAction) FavoriteChanged {
	return FavoriteChanged{Meta: newMeta(), ListingID: listingID, Change: action}
}

func (e FavoriteChanged) Kind() Kind { return KindFavoriteChanged }
func (e FavoriteChanged) Metadata() Meta { return e.Meta }
func (e FavoriteChanged) Action() string { return string(e.Change) }
func (FavoriteChanged) isEvent() {}

// ReviewAction describes a review mutation.
type ReviewAction string

const (
	ReviewCreated ReviewAction = "created"
	ReviewUpdated ReviewAction = "updated"
)

// ReviewChanged is published after a review was created or updated.
type ReviewChanged struct {
	Meta
	ReviewID  string       `json:"review_id"`
	ListingID string       `json:"listing_id"`
	Change    ReviewAction `json:"action"`
}

// NewReviewChanged stamps a new event.
func NewReviewChanged(reviewID, listingID string, action ReviewAction) ReviewChanged {
	return ReviewChanged{Meta: newMeta(), ReviewID: reviewID, ListingID: listingID, Change: action}
}

func (e ReviewChanged) Kind() Kind { return KindReviewChanged }
func (e ReviewChanged) Metadata() Meta { return e.Meta }
func (e ReviewChanged) Action() string { return string(e.Change) }
func (ReviewChanged) isEvent() {}
