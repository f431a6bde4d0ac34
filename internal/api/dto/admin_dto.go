package dto

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
)

// ReportQuery filters the admin dashboard.
type ReportQuery struct {
	DateFrom string `query:"date_from" json:"date_from"`
	DateTo   string `query:"date_to" json:"date_to"`
	Limit    int    `query:"limit" json:"limit"`
}

func (q ReportQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.DateFrom, validation.Date(dateLayout)),
		validation.Field(&q.DateTo, validation.Date(dateLayout)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}

func (q ReportQuery) Filter() repository.ReportFilter {
	return repository.ReportFilter{
		DateRange: repository.DateRange{From: q.DateFrom, To: q.DateTo},
		Limit:     q.Limit,
	}
}

// AdminFavoritesQuery filters the admin favorites list.
type AdminFavoritesQuery struct {
	Query string `query:"q" json:"q"`
	Page  int    `query:"page" json:"page"`
}

func (q AdminFavoritesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

// AdminReviewsQuery filters the admin review list.
type AdminReviewsQuery struct {
	Query     string `query:"q" json:"q"`
	MinRating int    `query:"min_rating" json:"min_rating"`
	MaxRating int    `query:"max_rating" json:"max_rating"`
	DateFrom  string `query:"date_from" json:"date_from"`
	DateTo    string `query:"date_to" json:"date_to"`
	Page      int    `query:"page" json:"page"`
}

func (q AdminReviewsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.MinRating, validation.Min(0), validation.Max(5)),
		validation.Field(&q.MaxRating, validation.Min(0), validation.Max(5)),
		validation.Field(&q.DateFrom, validation.Date(dateLayout)),
		validation.Field(&q.DateTo, validation.Date(dateLayout)),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

func (q AdminReviewsQuery) Filter() repository.ReviewFilter {
	return repository.ReviewFilter{
		Query:     q.Query,
		MinRating: q.MinRating,
		MaxRating: q.MaxRating,
		DateRange: repository.DateRange{From: q.DateFrom, To: q.DateTo},
		PageQuery: repository.PageQuery{Page: q.Page},
	}
}

// PurchaseStatuses are the purchase states the admin list filters by.
var PurchaseStatuses = []string{"ALL", "COMPLETED", "CANCELLED"}

// AdminPurchasesQuery filters the admin purchase list.
type AdminPurchasesQuery struct {
	Query    string `query:"q" json:"q"`
	Status   string `query:"status" json:"status"`
	DateFrom string `query:"date_from" json:"date_from"`
	DateTo   string `query:"date_to" json:"date_to"`
	Page     int    `query:"page" json:"page"`
}

func (q AdminPurchasesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.Status, validation.In("ALL", "COMPLETED", "CANCELLED")),
		validation.Field(&q.DateFrom, validation.Date(dateLayout)),
		validation.Field(&q.DateTo, validation.Date(dateLayout)),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

func (q AdminPurchasesQuery) Filter() repository.PurchaseFilter {
	return repository.PurchaseFilter{
		Query:     q.Query,
		Status:    q.Status,
		DateRange: repository.DateRange{From: q.DateFrom, To: q.DateTo},
		PageQuery: repository.PageQuery{Page: q.Page},
	}
}

// AdminUsersQuery filters the admin user list.
type AdminUsersQuery struct {
	Query string `query:"q" json:"q"`
	Role  string `query:"role" json:"role"`
	Page  int    `query:"page" json:"page"`
}

func (q AdminUsersQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.Role, validation.In("all", string(domain.RoleBuyer), string(domain.RoleAgency), string(domain.RoleAdmin))),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

func (q AdminUsersQuery) Filter() repository.UserFilter {
	return repository.UserFilter{
		Query:     q.Query,
		Role:      domain.Role(q.Role),
		PageQuery: repository.PageQuery{Page: q.Page},
	}
}

// AgencyForm opens a new agency with its first account.
type AgencyForm struct {
	AgencyName      string `form:"agency_name" json:"agency_name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func (f *AgencyForm) Normalize() {
	f.AgencyName = strings.TrimSpace(f.AgencyName)
	f.Email = strings.TrimSpace(f.Email)
}

func (f AgencyForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.AgencyName, validation.Required, validation.Length(2, 120)),
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&f.ConfirmPassword,
			validation.Required,
			validation.In(f.Password).Error("passwords do not match"),
		),
	)
}

func (f AgencyForm) Account() repository.AgencyAccount {
	return repository.AgencyAccount{Email: f.Email, Password: f.Password, AgencyName: f.AgencyName}
}
