package service

import (
	"context"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// PurchaseService coordinates the buyer purchase workflow.
type PurchaseService struct {
	purchases repository.PurchaseRepository
}

// NewPurchaseService creates the service.
func NewPurchaseService(purchases repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{purchases: purchases}
}

func (s *PurchaseService) Create(ctx context.Context, listingID int64, quantity int) (*domain.Purchase, error) {
	if listingID <= 0 {
		return nil, apperrors.NewValidationError("listing id is required", nil)
	}
	if quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1", map[string]any{"quantity": quantity})
	}
	return s.purchases.Create(ctx, listingID, quantity)
}

func (s *PurchaseService) Mine(ctx context.Context) ([]domain.Purchase, error) {
	return s.purchases.Mine(ctx)
}

func (s *PurchaseService) Cancel(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	if strings.TrimSpace(purchaseID) == "" {
		return nil, apperrors.NewValidationError("purchase id is required", nil)
	}
	return s.purchases.Cancel(ctx, purchaseID)
}

func (s *PurchaseService) Reactivate(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	if strings.TrimSpace(purchaseID) == "" {
		return nil, apperrors.NewValidationError("purchase id is required", nil)
	}
	return s.purchases.Reactivate(ctx, purchaseID)
}
