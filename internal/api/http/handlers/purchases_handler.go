package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// MyPurchasesPath is the buyer's purchase history view.
const MyPurchasesPath = "/my-purchases"

// PurchasesHandler serves the purchase workflow.
type PurchasesHandler struct {
	views     *Views
	purchases *service.PurchaseService
	mine      *mountedView[[]domain.Purchase]
}

// NewPurchasesHandler mounts the purchase history view. Purchases publish no
// domain event, so the handler drops the cache after its own mutations.
func NewPurchasesHandler(views *Views, purchases *service.PurchaseService, src guard.Source) *PurchasesHandler {
	h := &PurchasesHandler{views: views, purchases: purchases}
	h.mine = mountView(src, nil, guard.AnyOf(domain.RoleBuyer), MyPurchasesPath,
		func(ctx context.Context) ([]domain.Purchase, error) { return purchases.Mine(ctx) })
	return h
}

func (h *PurchasesHandler) MyPurchases(c *fiber.Ctx) error {
	purchases, err := h.mine.Get(c.UserContext())
	if err != nil {
		return err
	}
	rows := make([]purchaseRow, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, purchaseRow{Purchase: p, CanCancel: p.Cancellable()})
	}
	return h.views.Render(c, fiber.StatusOK, "my_purchases", fiber.Map{
		"title":     "My purchases",
		"purchases": rows,
	})
}

type purchaseRow struct {
	domain.Purchase
	CanCancel bool
}

// Create orders units of a listing.
func (h *PurchasesHandler) Create(c *fiber.Ctx) error {
	var form dto.PurchaseForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	if err := form.Validate(); err != nil {
		return formRejected(c, err, MyPurchasesPath)
	}
	if _, err := h.purchases.Create(c.UserContext(), form.ListingID, form.Quantity); err != nil {
		return mutationFailed(c, err, MyPurchasesPath)
	}
	h.mine.purge()
	setFlash(c, "success", "Purchase registered.")
	return c.Redirect(MyPurchasesPath, fiber.StatusSeeOther)
}

func (h *PurchasesHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.purchases.Cancel, "Purchase cancelled.")
}

func (h *PurchasesHandler) Reactivate(c *fiber.Ctx) error {
	return h.transition(c, h.purchases.Reactivate, "Purchase reactivated.")
}

func (h *PurchasesHandler) transition(c *fiber.Ctx, call func(context.Context, string) (*domain.Purchase, error), done string) error {
	if _, err := call(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, MyPurchasesPath)
	}
	h.mine.purge()
	setFlash(c, "success", done)
	return c.Redirect(MyPurchasesPath, fiber.StatusSeeOther)
}

// Close unmounts the purchase history view.
func (h *PurchasesHandler) Close() {
	h.mine.Close()
}
