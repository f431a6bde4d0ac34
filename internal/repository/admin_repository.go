package repository

import (
	"context"
	"net/url"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// PurchaseFilter narrows the admin purchase list. Status is sent as is; an
// empty status lists every purchase.
type PurchaseFilter struct {
	Query  string
	Status string
	DateRange
	PageQuery
}

// UserFilter narrows the admin user list. An empty role lists everyone.
type UserFilter struct {
	Query string
	Role  domain.Role
	PageQuery
}

// AdminRepository reads the marketplace-wide purchase and user lists.
type AdminRepository interface {
	Purchases(ctx context.Context, filter PurchaseFilter) (*domain.Page[domain.Purchase], error)
	Users(ctx context.Context, filter UserFilter) (*domain.Page[domain.User], error)
}

type adminRepository struct {
	backend Backend
}

// NewAdminRepository constructs repository.
func NewAdminRepository(backend Backend) AdminRepository {
	return &adminRepository{backend: backend}
}

func (r *adminRepository) Purchases(ctx context.Context, filter PurchaseFilter) (*domain.Page[domain.Purchase], error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIf(q, "status", filter.Status)
	filter.DateRange.apply(q)
	filter.PageQuery.apply(q, 20)

	var page domain.Page[domain.Purchase]
	if err := r.backend.Do(ctx, gateway.Request{Path: "admin/purchases", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *adminRepository) Users(ctx context.Context, filter UserFilter) (*domain.Page[domain.User], error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIf(q, "role", string(filter.Role))
	filter.PageQuery.apply(q, 20)

	var page domain.Page[domain.User]
	if err := r.backend.Do(ctx, gateway.Request{Path: "admin/users", Query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
