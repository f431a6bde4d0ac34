package service_test

import (
	"context"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
)

type fakeFavorites struct {
	err   error
	calls []string
}

func (f *fakeFavorites) Mine(context.Context) ([]domain.Favorite, error) {
	return []domain.Favorite{{ID: 1, ListingID: 12}}, f.err
}

func (f *fakeFavorites) Add(_ context.Context, listingID string) error {
	f.calls = append(f.calls, "add:"+listingID)
	return f.err
}

func (f *fakeFavorites) Remove(_ context.Context, listingID string) error {
	f.calls = append(f.calls, "remove:"+listingID)
	return f.err
}

func (f *fakeFavorites) AdminList(context.Context, string, repository.PageQuery) (*domain.Page[domain.Favorite], error) {
	return &domain.Page[domain.Favorite]{}, f.err
}

type fakeReviews struct {
	err    error
	review *domain.Review
	inputs []repository.ReviewInput
	admin  int
}

func (f *fakeReviews) ByListing(context.Context, string) ([]domain.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Review{{ID: 1, Rating: 4}}, nil
}

func (f *fakeReviews) Mine(context.Context) ([]domain.Review, error) {
	return nil, f.err
}

func (f *fakeReviews) Create(_ context.Context, input repository.ReviewInput) (*domain.Review, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.review, nil
}

func (f *fakeReviews) Update(_ context.Context, _ string, input repository.ReviewInput) (*domain.Review, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.review, nil
}

func (f *fakeReviews) AdminList(context.Context, repository.ReviewFilter) (*domain.Page[domain.Review], error) {
	f.admin++
	return &domain.Page[domain.Review]{}, f.err
}

type fakeListings struct {
	err    error
	search repository.ListingSearch
	drafts []repository.ListingDraft
	patch  repository.ListingPatch
	calls  []string
}

func (f *fakeListings) Search(_ context.Context, filter repository.ListingSearch) (*domain.ListingPage, error) {
	f.search = filter
	return &domain.ListingPage{}, f.err
}

func (f *fakeListings) Get(_ context.Context, id string) (*domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Listing{ID: 12, Brand: "Fiat"}, nil
}

func (f *fakeListings) SearchCarModels(context.Context, string) ([]domain.CarModel, error) {
	return nil, f.err
}

func (f *fakeListings) MyListings(context.Context, repository.PageQuery) (*domain.ListingPage, error) {
	return &domain.ListingPage{}, f.err
}

func (f *fakeListings) MyListing(_ context.Context, id string) (*domain.Listing, error) {
	f.calls = append(f.calls, "get:"+id)
	return &domain.Listing{ID: 12}, f.err
}

func (f *fakeListings) Create(_ context.Context, draft repository.ListingDraft) (*domain.Listing, error) {
	f.drafts = append(f.drafts, draft)
	return &domain.Listing{ID: 40}, f.err
}

func (f *fakeListings) Update(_ context.Context, id string, patch repository.ListingPatch) (*domain.Listing, error) {
	f.calls = append(f.calls, "update:"+id)
	f.patch = patch
	return &domain.Listing{ID: 12}, f.err
}

func (f *fakeListings) Cancel(_ context.Context, id string) error {
	f.calls = append(f.calls, "cancel:"+id)
	return f.err
}

func (f *fakeListings) Activate(_ context.Context, id string) error {
	f.calls = append(f.calls, "activate:"+id)
	return f.err
}

func (f *fakeListings) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

type fakeInventory struct {
	err    error
	item   domain.InventoryItem
	drafts []repository.InventoryDraft
	calls  []string
}

func (f *fakeInventory) List(context.Context, repository.InventoryFilter) (*domain.Page[domain.InventoryItem], error) {
	return &domain.Page[domain.InventoryItem]{Items: []domain.InventoryItem{f.item}}, f.err
}

func (f *fakeInventory) Get(_ context.Context, id string) (*domain.InventoryItem, error) {
	f.calls = append(f.calls, "get:"+id)
	if f.err != nil {
		return nil, f.err
	}
	item := f.item
	return &item, nil
}

func (f *fakeInventory) Create(_ context.Context, draft repository.InventoryDraft) (*domain.InventoryItem, error) {
	f.drafts = append(f.drafts, draft)
	return &domain.InventoryItem{ID: 8, Brand: draft.Brand, Model: draft.Model}, f.err
}

func (f *fakeInventory) Update(_ context.Context, id string, _ repository.InventoryPatch) (*domain.InventoryItem, error) {
	f.calls = append(f.calls, "update:"+id)
	return &domain.InventoryItem{}, f.err
}

func (f *fakeInventory) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

type fakeAgencies struct {
	err      error
	accounts []repository.AgencyAccount
}

func (f *fakeAgencies) Sales(context.Context, repository.SalesFilter) (*domain.Page[domain.Purchase], error) {
	return &domain.Page[domain.Purchase]{}, f.err
}

func (f *fakeAgencies) Customers(context.Context, repository.CustomerFilter) (*domain.Page[domain.Customer], error) {
	return &domain.Page[domain.Customer]{}, f.err
}

func (f *fakeAgencies) Create(_ context.Context, account repository.AgencyAccount) (*domain.Agency, error) {
	f.accounts = append(f.accounts, account)
	return &domain.Agency{ID: 3, Name: account.AgencyName}, f.err
}

type fakeAdmin struct {
	purchases repository.PurchaseFilter
	users     repository.UserFilter
}

func (f *fakeAdmin) Purchases(_ context.Context, filter repository.PurchaseFilter) (*domain.Page[domain.Purchase], error) {
	f.purchases = filter
	return &domain.Page[domain.Purchase]{}, nil
}

func (f *fakeAdmin) Users(_ context.Context, filter repository.UserFilter) (*domain.Page[domain.User], error) {
	f.users = filter
	return &domain.Page[domain.User]{}, nil
}

type fakePurchases struct {
	err   error
	calls []string
}

func (f *fakePurchases) Create(context.Context, int64, int) (*domain.Purchase, error) {
	f.calls = append(f.calls, "create")
	return &domain.Purchase{ID: 1, Status: domain.PurchaseStatusActive}, f.err
}

func (f *fakePurchases) Mine(context.Context) ([]domain.Purchase, error) {
	return nil, f.err
}

func (f *fakePurchases) Cancel(_ context.Context, id string) (*domain.Purchase, error) {
	f.calls = append(f.calls, "cancel:"+id)
	return &domain.Purchase{Status: domain.PurchaseStatusCancelled}, f.err
}

func (f *fakePurchases) Reactivate(_ context.Context, id string) (*domain.Purchase, error) {
	f.calls = append(f.calls, "reactivate:"+id)
	return &domain.Purchase{Status: domain.PurchaseStatusActive}, f.err
}

type fakeReports struct {
	failing map[domain.ReportKind]error
}

func (f *fakeReports) Report(_ context.Context, kind domain.ReportKind, _ repository.ReportFilter) ([]domain.ReportRow, error) {
	if err := f.failing[kind]; err != nil {
		return nil, err
	}
	return []domain.ReportRow{{"kind": string(kind)}}, nil
}
