package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// MyReviewsPath is the buyer's reviews view.
const MyReviewsPath = "/my-reviews"

// ReviewsHandler creates and edits the buyer's reviews.
type ReviewsHandler struct {
	views   *Views
	reviews *service.ReviewService
	mine    *mountedView[[]domain.Review]
}

// NewReviewsHandler mounts the reviews view; it reloads after every
// review-changed event.
func NewReviewsHandler(views *Views, reviews *service.ReviewService, src guard.Source, dispatcher events.Dispatcher) *ReviewsHandler {
	h := &ReviewsHandler{views: views, reviews: reviews}
	h.mine = mountView(src, dispatcher, guard.AnyOf(domain.RoleBuyer), MyReviewsPath,
		func(ctx context.Context) ([]domain.Review, error) { return reviews.Mine(ctx) },
		events.KindReviewChanged)
	return h
}

func (h *ReviewsHandler) MyReviews(c *fiber.Ctx) error {
	reviews, err := h.mine.Get(c.UserContext())
	if err != nil {
		return err
	}
	return h.views.Render(c, fiber.StatusOK, "my_reviews", fiber.Map{
		"title":   "My reviews",
		"reviews": reviews,
	})
}

// Create posts a new review for a listing.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	var form dto.ReviewForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	back := MyReviewsPath
	if form.ListingID > 0 {
		back = "/listings/" + strconv.FormatInt(form.ListingID, 10)
	}
	if err := form.Validate(); err != nil {
		return formRejected(c, err, back)
	}

	_, err := h.reviews.Create(c.UserContext(), repository.ReviewInput{
		ListingID: form.ListingID,
		Rating:    form.Rating,
		Comment:   form.Comment,
	})
	if err != nil {
		return mutationFailed(c, err, back)
	}
	setFlash(c, "success", "Review published.")
	return redirectBack(c, back)
}

// Update edits the rating and comment of an existing review.
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	var form dto.ReviewForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.ValidateUpdate(); err != nil {
		return formRejected(c, err, MyReviewsPath)
	}

	_, err := h.reviews.Update(c.UserContext(), c.Params("id"), repository.ReviewInput{
		Rating:  form.Rating,
		Comment: form.Comment,
	})
	if err != nil {
		return mutationFailed(c, err, MyReviewsPath)
	}
	setFlash(c, "success", "Review updated.")
	return c.Redirect(MyReviewsPath, fiber.StatusSeeOther)
}

// Close unmounts the reviews view.
func (h *ReviewsHandler) Close() {
	h.mine.Close()
}
