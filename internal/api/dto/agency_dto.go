package dto

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/service"
)

const maxSellerNotesLength = 1000

// ListingForm publishes or edits an agency listing.
type ListingForm struct {
	InventoryID int64   `form:"inventory_id" json:"inventory_id"`
	Price       float64 `form:"price" json:"price"`
	Currency    string  `form:"currency" json:"currency"`
	Stock       int     `form:"stock" json:"stock"`
	SellerNotes string  `form:"seller_notes" json:"seller_notes"`
	ExpiresOn   string  `form:"expires_on" json:"expires_on"`
}

func (f *ListingForm) Normalize() {
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	f.SellerNotes = strings.TrimSpace(f.SellerNotes)
	f.ExpiresOn = strings.TrimSpace(f.ExpiresOn)
}

// Validate checks a new listing; the inventory item is required.
func (f ListingForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.InventoryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&f.Price, validation.Required, validation.Min(float64(0))),
		validation.Field(&f.Currency, validation.Required, validation.In(currencies()...)),
		validation.Field(&f.Stock, validation.Required, validation.Min(1)),
		validation.Field(&f.SellerNotes, validation.Length(0, maxSellerNotesLength)),
		validation.Field(&f.ExpiresOn, validation.Date(dateLayout)),
	)
}

// ValidateUpdate checks an edit; the inventory item is fixed.
func (f ListingForm) ValidateUpdate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Price, validation.Required, validation.Min(float64(0))),
		validation.Field(&f.Currency, validation.Required, validation.In(currencies()...)),
		validation.Field(&f.Stock, validation.Required, validation.Min(1)),
		validation.Field(&f.SellerNotes, validation.Length(0, maxSellerNotesLength)),
		validation.Field(&f.ExpiresOn, validation.Date(dateLayout)),
	)
}

func (f ListingForm) Input() service.ListingInput {
	return service.ListingInput{
		InventoryID: f.InventoryID,
		Price:       f.Price,
		Currency:    f.Currency,
		Stock:       f.Stock,
		SellerNotes: f.SellerNotes,
		ExpiresOn:   f.ExpiresOn,
	}
}

func currencies() []interface{} {
	out := make([]interface{}, len(domain.Currencies))
	for i, c := range domain.Currencies {
		out[i] = c
	}
	return out
}

// InventoryForm adds an inventory item or edits its stock.
type InventoryForm struct {
	Brand    string `form:"brand" json:"brand"`
	Model    string `form:"model" json:"model"`
	Quantity int    `form:"quantity" json:"quantity"`
	IsUsed   bool   `form:"is_used" json:"is_used"`
}

func (f *InventoryForm) Normalize() {
	f.Brand = strings.TrimSpace(f.Brand)
	f.Model = strings.TrimSpace(f.Model)
}

func (f InventoryForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Brand, validation.Required, validation.Length(1, 60)),
		validation.Field(&f.Model, validation.Required, validation.Length(1, 60)),
		validation.Field(&f.Quantity, validation.Required, validation.Min(1), validation.Max(10000)),
	)
}

// ValidateUpdate checks an edit; brand and model are fixed.
func (f InventoryForm) ValidateUpdate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Quantity, validation.Min(0), validation.Max(10000)),
	)
}

func (f InventoryForm) Draft() repository.InventoryDraft {
	return repository.InventoryDraft{Brand: f.Brand, Model: f.Model, Quantity: f.Quantity, IsUsed: f.IsUsed}
}

func (f InventoryForm) Patch() repository.InventoryPatch {
	return repository.InventoryPatch{Quantity: f.Quantity, IsUsed: f.IsUsed}
}

// InventoryQuery filters the inventory view. Used is "", "true" or "false".
type InventoryQuery struct {
	Brand string `query:"brand" json:"brand"`
	Model string `query:"model" json:"model"`
	Used  string `query:"is_used" json:"is_used"`
	Page  int    `query:"page" json:"page"`
}

func (q InventoryQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Brand, validation.Length(0, 60)),
		validation.Field(&q.Model, validation.Length(0, 60)),
		validation.Field(&q.Used, validation.In("true", "false")),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

func (q InventoryQuery) Filter() repository.InventoryFilter {
	filter := repository.InventoryFilter{
		Brand:     q.Brand,
		Model:     q.Model,
		PageQuery: repository.PageQuery{Page: q.Page},
	}
	if used, err := strconv.ParseBool(q.Used); err == nil {
		filter.IsUsed = &used
	}
	return filter
}

// SalesQuery filters the agency sales view.
type SalesQuery struct {
	Brand    string `query:"brand" json:"brand"`
	Model    string `query:"model" json:"model"`
	Customer string `query:"customer" json:"customer"`
	DateFrom string `query:"date_from" json:"date_from"`
	DateTo   string `query:"date_to" json:"date_to"`
}

func (q SalesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Brand, validation.Length(0, 60)),
		validation.Field(&q.Model, validation.Length(0, 60)),
		validation.Field(&q.Customer, validation.Length(0, 100)),
		validation.Field(&q.DateFrom, validation.Date(dateLayout)),
		validation.Field(&q.DateTo, validation.Date(dateLayout)),
	)
}

func (q SalesQuery) Filter() repository.SalesFilter {
	return repository.SalesFilter{
		Brand:     q.Brand,
		Model:     q.Model,
		Customer:  q.Customer,
		DateRange: repository.DateRange{From: q.DateFrom, To: q.DateTo},
	}
}

// CustomersQuery filters the agency customers view.
type CustomersQuery struct {
	Query        string  `query:"q" json:"q"`
	MinPurchases int     `query:"min_purchases" json:"min_purchases"`
	MinSpent     float64 `query:"min_spent" json:"min_spent"`
}

func (q CustomersQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.MinPurchases, validation.Min(0)),
		validation.Field(&q.MinSpent, validation.Min(float64(0))),
	)
}

func (q CustomersQuery) Filter() repository.CustomerFilter {
	return repository.CustomerFilter{Query: q.Query, MinPurchases: q.MinPurchases, MinSpent: q.MinSpent}
}
