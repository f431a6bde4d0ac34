package service

import (
	"context"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
)

// ListingDetail is a listing with its reviews.
type ListingDetail struct {
	Listing *domain.Listing
	Reviews []domain.Review
	// ReviewsErr is set when the listing loaded but its reviews did not.
	ReviewsErr error
}

// CatalogService serves the public catalogue.
type CatalogService struct {
	listings repository.ListingRepository
	reviews  repository.ReviewRepository
}

// NewCatalogService creates the service.
func NewCatalogService(listings repository.ListingRepository, reviews repository.ReviewRepository) *CatalogService {
	return &CatalogService{listings: listings, reviews: reviews}
}

func (s *CatalogService) Search(ctx context.Context, filter repository.ListingSearch) (*domain.ListingPage, error) {
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		filter.MinPrice, filter.MaxPrice = filter.MaxPrice, filter.MinPrice
	}
	return s.listings.Search(ctx, filter)
}

// Detail loads a listing and, best effort, its reviews.
func (s *CatalogService) Detail(ctx context.Context, listingID string) (*ListingDetail, error) {
	listing, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	detail := &ListingDetail{Listing: listing}
	detail.Reviews, detail.ReviewsErr = s.reviews.ByListing(ctx, listingID)
	return detail, nil
}

func (s *CatalogService) CarModels(ctx context.Context, query string) ([]domain.CarModel, error) {
	return s.listings.SearchCarModels(ctx, query)
}
