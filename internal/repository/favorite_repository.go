package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// FavoriteRepository manages the signed-in buyer's favorites.
type FavoriteRepository interface {
	Mine(ctx context.Context) ([]domain.Favorite, error)
	Add(ctx context.Context, listingID string) error
	Remove(ctx context.Context, listingID string) error
	AdminList(ctx context.Context, query string, page PageQuery) (*domain.Page[domain.Favorite], error)
}

type favoriteRepository struct {
	backend Backend
}

// NewFavoriteRepository constructs repository.
func NewFavoriteRepository(backend Backend) FavoriteRepository {
	return &favoriteRepository{backend: backend}
}

func (r *favoriteRepository) Mine(ctx context.Context) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	if err := r.backend.Do(ctx, gateway.Request{Path: "favorites/my"}, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepository) Add(ctx context.Context, listingID string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "favorites/" + pathID(listingID)}, nil)
}

func (r *favoriteRepository) Remove(ctx context.Context, listingID string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "favorites/" + pathID(listingID)}, nil)
}

func (r *favoriteRepository) AdminList(ctx context.Context, query string, page PageQuery) (*domain.Page[domain.Favorite], error) {
	q := url.Values{}
	setIf(q, "q", query)
	page.apply(q, 20)
	var result domain.Page[domain.Favorite]
	if err := r.backend.Do(ctx, gateway.Request{Path: "admin/favorites", Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
