package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

const expiryLayout = "2006-01-02"

// ListingInput is what an agency fills in to publish or edit a listing.
// ExpiresOn is a YYYY-MM-DD day; empty means no expiry.
type ListingInput struct {
	InventoryID int64
	Price       float64
	Currency    string
	Stock       int
	SellerNotes string
	ExpiresOn   string
}

// AgencyService runs the agency back office: listings, inventory, sales.
type AgencyService struct {
	listings  repository.ListingRepository
	inventory repository.InventoryRepository
	agencies  repository.AgencyRepository
}

// NewAgencyService creates the service.
func NewAgencyService(listings repository.ListingRepository, inventory repository.InventoryRepository, agencies repository.AgencyRepository) *AgencyService {
	return &AgencyService{listings: listings, inventory: inventory, agencies: agencies}
}

// Listings returns the signed-in agency's own listings.
func (s *AgencyService) Listings(ctx context.Context, page repository.PageQuery) (*domain.ListingPage, error) {
	return s.listings.MyListings(ctx, page)
}

func (s *AgencyService) Listing(ctx context.Context, id string) (*domain.Listing, error) {
	if err := requireID(id, "listing"); err != nil {
		return nil, err
	}
	return s.listings.MyListing(ctx, id)
}

// Publish creates a listing from an inventory item. The listed stock may not
// exceed what the item holds.
func (s *AgencyService) Publish(ctx context.Context, input ListingInput) (*domain.Listing, error) {
	if input.InventoryID <= 0 {
		return nil, apperrors.NewValidationError("an inventory item is required", nil)
	}
	if err := checkListing(input); err != nil {
		return nil, err
	}
	item, err := s.inventory.Get(ctx, strconv.FormatInt(input.InventoryID, 10))
	if err != nil {
		return nil, err
	}
	if input.Stock > item.Quantity {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("not enough stock in inventory, available: %d", item.Quantity),
			map[string]any{"stock": input.Stock, "available": item.Quantity},
		)
	}
	expires, err := expiryTimestamp(input.ExpiresOn)
	if err != nil {
		return nil, err
	}

	draft := repository.ListingDraft{
		InventoryID:          item.ID,
		Brand:                item.Brand,
		Model:                item.Model,
		CurrentPriceAmount:   input.Price,
		CurrentPriceCurrency: input.Currency,
		Stock:                input.Stock,
		ExpiresOn:            expires,
	}
	if notes := strings.TrimSpace(input.SellerNotes); notes != "" {
		draft.SellerNotes = &notes
	}
	return s.listings.Create(ctx, draft)
}

// Update edits price, stock, notes and expiry of a listing.
func (s *AgencyService) Update(ctx context.Context, id string, input ListingInput) (*domain.Listing, error) {
	if err := requireID(id, "listing"); err != nil {
		return nil, err
	}
	if err := checkListing(input); err != nil {
		return nil, err
	}
	expires, err := expiryTimestamp(input.ExpiresOn)
	if err != nil {
		return nil, err
	}
	return s.listings.Update(ctx, id, repository.ListingPatch{
		CurrentPriceAmount:   input.Price,
		CurrentPriceCurrency: input.Currency,
		Stock:                input.Stock,
		SellerNotes:          strings.TrimSpace(input.SellerNotes),
		ExpiresOn:            expires,
	})
}

func (s *AgencyService) Cancel(ctx context.Context, id string) error {
	if err := requireID(id, "listing"); err != nil {
		return err
	}
	return s.listings.Cancel(ctx, id)
}

func (s *AgencyService) Activate(ctx context.Context, id string) error {
	if err := requireID(id, "listing"); err != nil {
		return err
	}
	return s.listings.Activate(ctx, id)
}

func (s *AgencyService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, "listing"); err != nil {
		return err
	}
	return s.listings.Delete(ctx, id)
}

func (s *AgencyService) Inventory(ctx context.Context, filter repository.InventoryFilter) (*domain.Page[domain.InventoryItem], error) {
	return s.inventory.List(ctx, filter)
}

func (s *AgencyService) InventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	if err := requireID(id, "inventory item"); err != nil {
		return nil, err
	}
	return s.inventory.Get(ctx, id)
}

func (s *AgencyService) AddInventory(ctx context.Context, draft repository.InventoryDraft) (*domain.InventoryItem, error) {
	draft.Brand = strings.TrimSpace(draft.Brand)
	draft.Model = strings.TrimSpace(draft.Model)
	if draft.Brand == "" || draft.Model == "" {
		return nil, apperrors.NewValidationError("brand and model are required", nil)
	}
	if draft.Quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be greater than 0", map[string]any{"quantity": draft.Quantity})
	}
	return s.inventory.Create(ctx, draft)
}

func (s *AgencyService) UpdateInventory(ctx context.Context, id string, patch repository.InventoryPatch) (*domain.InventoryItem, error) {
	if err := requireID(id, "inventory item"); err != nil {
		return nil, err
	}
	if patch.Quantity < 0 {
		return nil, apperrors.NewValidationError("quantity cannot be negative", map[string]any{"quantity": patch.Quantity})
	}
	return s.inventory.Update(ctx, id, patch)
}

func (s *AgencyService) DeleteInventory(ctx context.Context, id string) error {
	if err := requireID(id, "inventory item"); err != nil {
		return err
	}
	return s.inventory.Delete(ctx, id)
}

func (s *AgencyService) Sales(ctx context.Context, filter repository.SalesFilter) (*domain.Page[domain.Purchase], error) {
	return s.agencies.Sales(ctx, filter)
}

func (s *AgencyService) Customers(ctx context.Context, filter repository.CustomerFilter) (*domain.Page[domain.Customer], error) {
	return s.agencies.Customers(ctx, filter)
}

func checkListing(input ListingInput) error {
	if input.Price <= 0 {
		return apperrors.NewValidationError("price must be greater than 0", map[string]any{"price": input.Price})
	}
	if input.Stock < 1 {
		return apperrors.NewValidationError("stock must be at least 1", map[string]any{"stock": input.Stock})
	}
	for _, currency := range domain.Currencies {
		if input.Currency == currency {
			return nil
		}
	}
	return apperrors.NewValidationError("unsupported currency", map[string]any{"currency": input.Currency})
}

// expiryTimestamp turns a day into the midnight UTC timestamp the backend
// stores; an empty day clears the expiry.
func expiryTimestamp(day string) (*string, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return nil, nil
	}
	t, err := time.Parse(expiryLayout, day)
	if err != nil {
		return nil, apperrors.NewValidationError("expiry must be a YYYY-MM-DD date", map[string]any{"expires_on": day})
	}
	stamp := t.UTC().Format(time.RFC3339)
	return &stamp, nil
}

func requireID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError(what+" id is required", nil)
	}
	return nil
}
