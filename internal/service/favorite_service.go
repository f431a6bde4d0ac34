package service

import (
	"context"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// FavoriteService wraps favorite mutations and announces them.
type FavoriteService struct {
	favorites  repository.FavoriteRepository
	dispatcher events.Dispatcher
}

// NewFavoriteService creates the service.
func NewFavoriteService(favorites repository.FavoriteRepository, dispatcher events.Dispatcher) *FavoriteService {
	return &FavoriteService{favorites: favorites, dispatcher: dispatcher}
}

// Add marks a listing as favorite and publishes FavoriteChanged on success.
func (s *FavoriteService) Add(ctx context.Context, listingID string) error {
	return s.mutate(ctx, listingID, events.FavoriteAdded, s.favorites.Add)
}

// Remove unmarks a listing and publishes FavoriteChanged on success.
func (s *FavoriteService) Remove(ctx context.Context, listingID string) error {
	return s.mutate(ctx, listingID, events.FavoriteRemoved, s.favorites.Remove)
}

func (s *FavoriteService) mutate(ctx context.Context, listingID string, action events.FavoriteAction, call func(context.Context, string) error) error {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return apperrors.NewValidationError("listing id is required", nil)
	}
	if err := call(ctx, listingID); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.NewFavoriteChanged(listingID, action))
	return nil
}

// Mine lists the signed-in buyer's favorites.
func (s *FavoriteService) Mine(ctx context.Context) ([]domain.Favorite, error) {
	return s.favorites.Mine(ctx)
}

// AdminList pages through every favorite.
func (s *FavoriteService) AdminList(ctx context.Context, query string, page repository.PageQuery) (*domain.Page[domain.Favorite], error) {
	return s.favorites.AdminList(ctx, strings.TrimSpace(query), page)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}
