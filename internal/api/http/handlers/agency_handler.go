package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// Agency back office paths.
const (
	AgencyListingsPath  = "/agency/listings"
	AgencyInventoryPath = "/agency/inventory"
)

// AgencyHandler serves the agency back office: listings, inventory, sales
// and customers.
type AgencyHandler struct {
	views  *Views
	agency *service.AgencyService
}

// NewAgencyHandler constructs handler.
func NewAgencyHandler(views *Views, agency *service.AgencyService) *AgencyHandler {
	return &AgencyHandler{views: views, agency: agency}
}

// Listings shows the agency's listings and the form that publishes a new one
// from inventory.
func (h *AgencyHandler) Listings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page, err := h.agency.Listings(ctx, repository.PageQuery{Page: c.QueryInt("page", 1)})
	if err != nil {
		return err
	}
	data := fiber.Map{
		"title":      "My listings",
		"listings":   page.Items,
		"total":      page.Total,
		"page":       page.Page,
		"currencies": domain.Currencies,
	}
	if page.HasNext() {
		data["next_page"] = page.Page + 1
	}
	if page.Page > 1 {
		data["prev_page"] = page.Page - 1
	}

	// the create form still renders when inventory cannot be loaded
	inventory, err := h.agency.Inventory(ctx, repository.InventoryFilter{PageQuery: repository.PageQuery{PageSize: 100}})
	switch {
	case apperrors.IsCredentialInvalidated(err):
		return err
	case err != nil:
		data["inventory_error"] = apperrors.ToDomainError(err).Message
	default:
		data["inventory"] = inventory.Items
	}
	return h.views.Render(c, fiber.StatusOK, "agency_listings", data)
}

// Listing shows one listing with its edit form.
func (h *AgencyHandler) Listing(c *fiber.Ctx) error {
	listing, err := h.agency.Listing(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	// the date input only takes the YYYY-MM-DD day
	expires := listing.ExpiresOn
	if len(expires) > 10 {
		expires = expires[:10]
	}
	return h.views.Render(c, fiber.StatusOK, "agency_listing", fiber.Map{
		"title":      listing.Brand + " " + listing.Model,
		"listing":    listing,
		"expires_on": expires,
		"currencies": domain.Currencies,
	})
}

// CreateListing publishes a listing from an inventory item.
func (h *AgencyHandler) CreateListing(c *fiber.Ctx) error {
	var form dto.ListingForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		return formRejected(c, err, AgencyListingsPath)
	}
	listing, err := h.agency.Publish(c.UserContext(), form.Input())
	if err != nil {
		return mutationFailed(c, err, AgencyListingsPath)
	}
	setFlash(c, "success", "Listing published.")
	return c.Redirect(agencyListingPath(listing.ID), fiber.StatusSeeOther)
}

// UpdateListing edits price, stock, notes and expiry.
func (h *AgencyHandler) UpdateListing(c *fiber.Ctx) error {
	id := c.Params("id")
	back := AgencyListingsPath + "/" + id
	var form dto.ListingForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.ValidateUpdate(); err != nil {
		return formRejected(c, err, back)
	}
	if _, err := h.agency.Update(c.UserContext(), id, form.Input()); err != nil {
		return mutationFailed(c, err, back)
	}
	setFlash(c, "success", "Listing updated.")
	return c.Redirect(back, fiber.StatusSeeOther)
}

func (h *AgencyHandler) CancelListing(c *fiber.Ctx) error {
	if err := h.agency.Cancel(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, AgencyListingsPath)
	}
	setFlash(c, "success", "Listing paused.")
	return redirectBack(c, AgencyListingsPath)
}

func (h *AgencyHandler) ActivateListing(c *fiber.Ctx) error {
	if err := h.agency.Activate(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, AgencyListingsPath)
	}
	setFlash(c, "success", "Listing activated.")
	return redirectBack(c, AgencyListingsPath)
}

// DeleteListing removes a listing and returns to the list, since the
// listing's own page is gone.
func (h *AgencyHandler) DeleteListing(c *fiber.Ctx) error {
	if err := h.agency.Delete(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, AgencyListingsPath)
	}
	setFlash(c, "success", "Listing deleted.")
	return c.Redirect(AgencyListingsPath, fiber.StatusSeeOther)
}

// Inventory lists the agency's stock with the add form.
func (h *AgencyHandler) Inventory(c *fiber.Ctx) error {
	var query dto.InventoryQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Inventory", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "agency_inventory", data)
	}
	page, err := h.agency.Inventory(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["items"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "agency_inventory", data)
}

func (h *AgencyHandler) InventoryItem(c *fiber.Ctx) error {
	item, err := h.agency.InventoryItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.views.Render(c, fiber.StatusOK, "agency_inventory_item", fiber.Map{
		"title": item.Brand + " " + item.Model,
		"item":  item,
	})
}

func (h *AgencyHandler) CreateInventory(c *fiber.Ctx) error {
	var form dto.InventoryForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		return formRejected(c, err, AgencyInventoryPath)
	}
	if _, err := h.agency.AddInventory(c.UserContext(), form.Draft()); err != nil {
		return mutationFailed(c, err, AgencyInventoryPath)
	}
	setFlash(c, "success", "Inventory item added.")
	return c.Redirect(AgencyInventoryPath, fiber.StatusSeeOther)
}

func (h *AgencyHandler) UpdateInventory(c *fiber.Ctx) error {
	var form dto.InventoryForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	if err := form.ValidateUpdate(); err != nil {
		return formRejected(c, err, AgencyInventoryPath)
	}
	if _, err := h.agency.UpdateInventory(c.UserContext(), c.Params("id"), form.Patch()); err != nil {
		return mutationFailed(c, err, AgencyInventoryPath)
	}
	setFlash(c, "success", "Inventory item updated.")
	return c.Redirect(AgencyInventoryPath, fiber.StatusSeeOther)
}

func (h *AgencyHandler) DeleteInventory(c *fiber.Ctx) error {
	if err := h.agency.DeleteInventory(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, AgencyInventoryPath)
	}
	setFlash(c, "success", "Inventory item deleted.")
	return c.Redirect(AgencyInventoryPath, fiber.StatusSeeOther)
}

// Sales lists purchases of the agency's listings.
func (h *AgencyHandler) Sales(c *fiber.Ctx) error {
	var query dto.SalesQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Sales", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "agency_sales", data)
	}
	page, err := h.agency.Sales(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["sales"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "agency_sales", data)
}

// Customers lists the buyers who purchased from the agency.
func (h *AgencyHandler) Customers(c *fiber.Ctx) error {
	var query dto.CustomersQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	data := fiber.Map{"title": "Customers", "query": query}
	if err := query.Validate(); err != nil {
		data["errors"] = dto.FieldErrors(err)
		return h.views.Render(c, fiber.StatusUnprocessableEntity, "agency_customers", data)
	}
	page, err := h.agency.Customers(c.UserContext(), query.Filter())
	if err != nil {
		return err
	}
	data["customers"] = page.Items
	data["total"] = page.Total
	return h.views.Render(c, fiber.StatusOK, "agency_customers", data)
}

func agencyListingPath(id int64) string {
	if id <= 0 {
		return AgencyListingsPath
	}
	return AgencyListingsPath + "/" + strconv.FormatInt(id, 10)
}
