package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// InventoryFilter narrows the agency inventory. A nil IsUsed lists both new
// and used stock.
type InventoryFilter struct {
	Brand  string
	Model  string
	IsUsed *bool
	PageQuery
}

// InventoryDraft adds a car model to the agency inventory.
type InventoryDraft struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Quantity int    `json:"quantity"`
	IsUsed   bool   `json:"is_used"`
}

// InventoryPatch changes the stock of an inventory item.
type InventoryPatch struct {
	Quantity int  `json:"quantity"`
	IsUsed   bool `json:"is_used"`
}

// InventoryRepository manages the signed-in agency's inventory.
type InventoryRepository interface {
	List(ctx context.Context, filter InventoryFilter) (*domain.Page[domain.InventoryItem], error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	Create(ctx context.Context, draft InventoryDraft) (*domain.InventoryItem, error)
	Update(ctx context.Context, id string, patch InventoryPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

type inventoryRepository struct {
	backend Backend
}

// NewInventoryRepository constructs repository.
func NewInventoryRepository(backend Backend) InventoryRepository {
	return &inventoryRepository{backend: backend}
}

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) (*domain.Page[domain.InventoryItem], error) {
	q := url.Values{}
	setIf(q, "brand", filter.Brand)
	setIf(q, "model", filter.Model)
	if filter.IsUsed != nil {
		q.Set("is_used", strconv.FormatBool(*filter.IsUsed))
	}
	filter.PageQuery.apply(q, 20)

	var page domain.Page[domain.InventoryItem]
	if err := r.backend.Do(ctx, gateway.Request{Path: "inventory", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *inventoryRepository) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := r.backend.Do(ctx, gateway.Request{Path: "inventory/" + pathID(id)}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Create(ctx context.Context, draft InventoryDraft) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "inventory", Body: draft}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, id string, patch InventoryPatch) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	req := gateway.Request{Method: http.MethodPatch, Path: "inventory/" + pathID(id), Body: patch}
	if err := r.backend.Do(ctx, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "inventory/" + pathID(id)}, nil)
}
