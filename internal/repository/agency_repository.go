package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// SalesFilter narrows the agency's sales.
type SalesFilter struct {
	Brand    string
	Model    string
	Customer string
	DateRange
}

// CustomerFilter narrows the agency's customers.
type CustomerFilter struct {
	Query        string
	MinPurchases int
	MinSpent     float64
}

// AgencyAccount is the admin form that opens a new agency.
type AgencyAccount struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	AgencyName string `json:"agency_name"`
}

// AgencyRepository reads the signed-in agency's sales and opens agencies.
type AgencyRepository interface {
	Sales(ctx context.Context, filter SalesFilter) (*domain.Page[domain.Purchase], error)
	Customers(ctx context.Context, filter CustomerFilter) (*domain.Page[domain.Customer], error)
	Create(ctx context.Context, account AgencyAccount) (*domain.Agency, error)
}

type agencyRepository struct {
	backend Backend
}

// NewAgencyRepository constructs repository.
func NewAgencyRepository(backend Backend) AgencyRepository {
	return &agencyRepository{backend: backend}
}

func (r *agencyRepository) Sales(ctx context.Context, filter SalesFilter) (*domain.Page[domain.Purchase], error) {
	q := url.Values{}
	setIf(q, "brand", filter.Brand)
	setIf(q, "model", filter.Model)
	setIf(q, "customer", filter.Customer)
	filter.DateRange.apply(q)

	var page domain.Page[domain.Purchase]
	if err := r.backend.Do(ctx, gateway.Request{Path: "agencies/my-sales", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *agencyRepository) Customers(ctx context.Context, filter CustomerFilter) (*domain.Page[domain.Customer], error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIntIf(q, "min_purchases", filter.MinPurchases)
	if filter.MinSpent > 0 {
		q.Set("min_spent", strconv.FormatFloat(filter.MinSpent, 'f', -1, 64))
	}

	var page domain.Page[domain.Customer]
	if err := r.backend.Do(ctx, gateway.Request{Path: "agencies/my-customers", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *agencyRepository) Create(ctx context.Context, account AgencyAccount) (*domain.Agency, error) {
	var agency domain.Agency
	if err := r.backend.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "agencies", Body: account}, &agency); err != nil {
		return nil, err
	}
	return &agency, nil
}
