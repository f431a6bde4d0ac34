package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// ReviewService wraps review reads and writes and announces writes.
type ReviewService struct {
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
}

// NewReviewService creates the service.
func NewReviewService(reviews repository.ReviewRepository, dispatcher events.Dispatcher) *ReviewService {
	return &ReviewService{reviews: reviews, dispatcher: dispatcher}
}

// Create posts a review and publishes ReviewChanged{created}.
func (s *ReviewService) Create(ctx context.Context, input repository.ReviewInput) (*domain.Review, error) {
	if input.ListingID <= 0 {
		return nil, apperrors.NewValidationError("listing id is required", nil)
	}
	if err := checkRating(input.Rating); err != nil {
		return nil, err
	}
	input.Comment = strings.TrimSpace(input.Comment)

	review, err := s.reviews.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	listingID := review.ListingID
	if listingID == 0 {
		listingID = input.ListingID
	}
	publish(ctx, s.dispatcher, events.NewReviewChanged(
		strconv.FormatInt(review.ID, 10),
		strconv.FormatInt(listingID, 10),
		events.ReviewCreated,
	))
	return review, nil
}

// Update edits a review and publishes ReviewChanged{updated}.
func (s *ReviewService) Update(ctx context.Context, reviewID string, input repository.ReviewInput) (*domain.Review, error) {
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return nil, apperrors.NewValidationError("review id is required", nil)
	}
	if err := checkRating(input.Rating); err != nil {
		return nil, err
	}
	input.Comment = strings.TrimSpace(input.Comment)

	review, err := s.reviews.Update(ctx, reviewID, input)
	if err != nil {
		return nil, err
	}
	listingID := ""
	if review.ListingID != 0 {
		listingID = strconv.FormatInt(review.ListingID, 10)
	}
	publish(ctx, s.dispatcher, events.NewReviewChanged(reviewID, listingID, events.ReviewUpdated))
	return review, nil
}

func (s *ReviewService) ByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	return s.reviews.ByListing(ctx, listingID)
}

func (s *ReviewService) Mine(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.Mine(ctx)
}

func (s *ReviewService) AdminList(ctx context.Context, filter repository.ReviewFilter) (*domain.Page[domain.Review], error) {
	if filter.MinRating > 0 && filter.MaxRating > 0 && filter.MinRating > filter.MaxRating {
		return nil, apperrors.NewValidationError("min rating exceeds max rating", map[string]any{
			"min_rating": filter.MinRating,
			"max_rating": filter.MaxRating,
		})
	}
	return s.reviews.AdminList(ctx, filter)
}

func checkRating(rating int) error {
	if rating < domain.MinReviewRating || rating > domain.MaxReviewRating {
		return apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	return nil
}
