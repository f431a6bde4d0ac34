package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// ListingsHandler serves the public catalogue.
type ListingsHandler struct {
	views   *Views
	catalog *service.CatalogService
	logger  *zap.Logger
}

// NewListingsHandler constructs handler.
func NewListingsHandler(views *Views, catalog *service.CatalogService, logger *zap.Logger) *ListingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingsHandler{views: views, catalog: catalog, logger: logger}
}

// Search renders the filtered listing page.
func (h *ListingsHandler) Search(c *fiber.Ctx) error {
	var query dto.ListingSearchQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Listings", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "listings", data)
	}

	page, err := h.catalog.Search(c.UserContext(), query.Search())
	if err != nil {
		return err
	}
	data["listings"] = page.Items
	data["total"] = page.Total
	data["page"] = page.Page
	if page.HasNext() {
		data["next_page"] = page.Page + 1
	}
	if page.Page > 1 {
		data["prev_page"] = page.Page - 1
	}

	if query.Brand != "" {
		models, err := h.catalog.CarModels(c.UserContext(), query.Brand)
		switch {
		case apperrors.IsCredentialInvalidated(err):
			return err
		case err != nil:
			h.logger.Debug("car model suggestions unavailable", zap.Error(err))
		default:
			data["models"] = models
		}
	}
	return h.views.Render(c, fiber.StatusOK, "listings", data)
}

// Detail renders one listing with its reviews.
func (h *ListingsHandler) Detail(c *fiber.Ctx) error {
	detail, err := h.catalog.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if apperrors.IsCredentialInvalidated(detail.ReviewsErr) {
		return detail.ReviewsErr
	}
	data := fiber.Map{
		"title":   detail.Listing.Brand + " " + detail.Listing.Model,
		"listing": detail.Listing,
		"reviews": detail.Reviews,
	}
	if detail.ReviewsErr != nil {
		h.logger.Warn("listing reviews unavailable", zap.Int64("listing_id", detail.Listing.ID), zap.Error(detail.ReviewsErr))
		data["reviews_error"] = "Reviews are unavailable right now."
	}
	return h.views.Render(c, fiber.StatusOK, "listing_detail", data)
}
