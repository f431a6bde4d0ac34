package service

import (
	"context"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// AdminService serves the marketplace-wide admin lists and opens agencies.
type AdminService struct {
	admin    repository.AdminRepository
	agencies repository.AgencyRepository
}

// NewAdminService creates the service.
func NewAdminService(admin repository.AdminRepository, agencies repository.AgencyRepository) *AdminService {
	return &AdminService{admin: admin, agencies: agencies}
}

// Purchases lists purchases; status "ALL" means no status filter.
func (s *AdminService) Purchases(ctx context.Context, filter repository.PurchaseFilter) (*domain.Page[domain.Purchase], error) {
	if strings.EqualFold(filter.Status, "all") {
		filter.Status = ""
	}
	return s.admin.Purchases(ctx, filter)
}

// Users lists accounts; role "all" means no role filter.
func (s *AdminService) Users(ctx context.Context, filter repository.UserFilter) (*domain.Page[domain.User], error) {
	filter.Role = domain.NormalizeRole(string(filter.Role))
	if filter.Role == "all" {
		filter.Role = ""
	}
	return s.admin.Users(ctx, filter)
}

// CreateAgency opens an agency together with its first account.
func (s *AdminService) CreateAgency(ctx context.Context, account repository.AgencyAccount) (*domain.Agency, error) {
	account.AgencyName = strings.TrimSpace(account.AgencyName)
	account.Email = strings.TrimSpace(account.Email)
	if account.AgencyName == "" {
		return nil, apperrors.NewValidationError("agency name is required", nil)
	}
	if account.Email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if len(account.Password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	return s.agencies.Create(ctx, account)
}
