package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// PurchaseRepository manages the signed-in buyer's purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, listingID int64, quantity int) (*domain.Purchase, error)
	Mine(ctx context.Context) ([]domain.Purchase, error)
	Cancel(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	Reactivate(ctx context.Context, purchaseID string) (*domain.Purchase, error)
}

type purchaseRepository struct {
	backend Backend
}

// NewPurchaseRepository constructs repository.
func NewPurchaseRepository(backend Backend) PurchaseRepository {
	return &purchaseRepository{backend: backend}
}

func (r *purchaseRepository) Create(ctx context.Context, listingID int64, quantity int) (*domain.Purchase, error) {
	body := map[string]any{"listing_id": listingID, "quantity": quantity}
	var purchase domain.Purchase
	if err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "purchases", Body: body}, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) Mine(ctx context.Context) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	if err := r.backend.Do(ctx, gateway.Request{Path: "purchases/my"}, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *purchaseRepository) Cancel(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return r.transition(ctx, purchaseID, "cancel")
}

func (r *purchaseRepository) Reactivate(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return r.transition(ctx, purchaseID, "reactivate")
}

func (r *purchaseRepository) transition(ctx context.Context, purchaseID, action string) (*domain.Purchase, error) {
	var purchase domain.Purchase
	path := "purchases/" + pathID(purchaseID) + "/" + action
	if err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path}, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}
