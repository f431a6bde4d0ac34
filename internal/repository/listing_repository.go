package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// ListingSearch filters the public catalogue.
type ListingSearch struct {
	Query    string
	Brand    string
	Model    string
	AgencyID int64
	MinPrice float64
	MaxPrice float64
	Sort     domain.ListingSort
	PageQuery
}

// ListingDraft publishes a new listing from an inventory item.
type ListingDraft struct {
	InventoryID          int64   `json:"inventory_id"`
	Brand                string  `json:"brand"`
	Model                string  `json:"model"`
	CurrentPriceAmount   float64 `json:"current_price_amount"`
	CurrentPriceCurrency string  `json:"current_price_currency"`
	Stock                int     `json:"stock"`
	SellerNotes          *string `json:"seller_notes"`
	ExpiresOn            *string `json:"expires_on"`
}

// ListingPatch is the editable part of a published listing. A nil expiry
// clears it.
type ListingPatch struct {
	CurrentPriceAmount   float64 `json:"current_price_amount,omitempty"`
	CurrentPriceCurrency string  `json:"current_price_currency,omitempty"`
	Stock                int     `json:"stock,omitempty"`
	SellerNotes          string  `json:"seller_notes"`
	ExpiresOn            *string `json:"expires_on"`
}

// ListingRepository reads listings and the car model catalogue, and manages
// the signed-in agency's own listings.
type ListingRepository interface {
	Search(ctx context.Context, filter ListingSearch) (*domain.ListingPage, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	SearchCarModels(ctx context.Context, query string) ([]domain.CarModel, error)
	MyListings(ctx context.Context, page PageQuery) (*domain.ListingPage, error)
	MyListing(ctx context.Context, id string) (*domain.Listing, error)
	Create(ctx context.Context, draft ListingDraft) (*domain.Listing, error)
	Update(ctx context.Context, id string, patch ListingPatch) (*domain.Listing, error)
	Cancel(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type listingRepository struct {
	backend Backend
}

// NewListingRepository constructs repository.
func NewListingRepository(backend Backend) ListingRepository {
	return &listingRepository{backend: backend}
}

func (r *listingRepository) Search(ctx context.Context, filter ListingSearch) (*domain.ListingPage, error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIf(q, "brand", filter.Brand)
	setIf(q, "model", filter.Model)
	if filter.AgencyID > 0 {
		q.Set("agency_id", strconv.FormatInt(filter.AgencyID, 10))
	}
	if filter.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	sort := filter.Sort
	if sort == "" {
		sort = domain.ListingSortNewest
	}
	q.Set("sort", string(sort))
	filter.PageQuery.apply(q, 20)

	var page domain.ListingPage
	if err := r.backend.Do(ctx, gateway.Request{Path: "listings", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *listingRepository) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.backend.Do(ctx, gateway.Request{Path: "listings/" + pathID(id)}, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) SearchCarModels(ctx context.Context, query string) ([]domain.CarModel, error) {
	q := url.Values{}
	setIf(q, "q", query)
	var models []domain.CarModel
	if err := r.backend.Do(ctx, gateway.Request{Path: "car-models", Query: q}, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// MyListings returns the listings of the signed-in agency.
func (r *listingRepository) MyListings(ctx context.Context, page PageQuery) (*domain.ListingPage, error) {
	q := url.Values{}
	page.apply(q, 10)
	var result domain.ListingPage
	if err := r.backend.Do(ctx, gateway.Request{Path: "agencies/my-listings", Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *listingRepository) MyListing(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.backend.Do(ctx, gateway.Request{Path: "agencies/my-listings/" + pathID(id)}, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Create(ctx context.Context, draft ListingDraft) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "listings", Body: draft}, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Update(ctx context.Context, id string, patch ListingPatch) (*domain.Listing, error) {
	var listing domain.Listing
	req := gateway.Request{Method: http.MethodPatch, Path: "listings/" + pathID(id), Body: patch}
	if err := r.backend.Do(ctx, req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Cancel(ctx context.Context, id string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "listings/" + pathID(id) + "/cancel"}, nil)
}

func (r *listingRepository) Activate(ctx context.Context, id string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "listings/" + pathID(id) + "/activate"}, nil)
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	return r.backend.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "listings/" + pathID(id)}, nil)
}
