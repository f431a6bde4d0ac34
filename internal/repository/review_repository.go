package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// ReviewInput is the writable part of a review.
type ReviewInput struct {
	ListingID int64  `json:"listing_id,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ReviewFilter narrows the admin review list.
type ReviewFilter struct {
	Query     string
	MinRating int
	MaxRating int
	DateRange
	PageQuery
}

// ReviewRepository reads and writes reviews.
type ReviewRepository interface {
	ByListing(ctx context.Context, listingID string) ([]domain.Review, error)
	Mine(ctx context.Context) ([]domain.Review, error)
	Create(ctx context.Context, input ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, reviewID string, input ReviewInput) (*domain.Review, error)
	AdminList(ctx context.Context, filter ReviewFilter) (*domain.Page[domain.Review], error)
}

type reviewRepository struct {
	backend Backend
}

// NewReviewRepository constructs repository.
func NewReviewRepository(backend Backend) ReviewRepository {
	return &reviewRepository{backend: backend}
}

func (r *reviewRepository) ByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := r.backend.Do(ctx, gateway.Request{Path: "reviews/by-listing/" + pathID(listingID)}, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Mine(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := r.backend.Do(ctx, gateway.Request{Path: "reviews/my"}, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Create(ctx context.Context, input ReviewInput) (*domain.Review, error) {
	var review domain.Review
	err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "reviews", Body: input}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, reviewID string, input ReviewInput) (*domain.Review, error) {
	body := map[string]any{"rating": input.Rating, "comment": input.Comment}
	var review domain.Review
	err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPatch, Path: "reviews/" + pathID(reviewID), Body: body}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) AdminList(ctx context.Context, filter ReviewFilter) (*domain.Page[domain.Review], error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIntIf(q, "min_rating", filter.MinRating)
	setIntIf(q, "max_rating", filter.MaxRating)
	filter.DateRange.apply(q)
	filter.PageQuery.apply(q, 20)

	var result domain.Page[domain.Review]
	if err := r.backend.Do(ctx, gateway.Request{Path: "admin/reviews", Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
