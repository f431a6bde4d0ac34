package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
)

const dateLayout = "2006-01-02"

// ListingSearchQuery is the query string of the listings view.
type ListingSearchQuery struct {
	Query    string  `query:"q" json:"q"`
	Brand    string  `query:"brand" json:"brand"`
	Model    string  `query:"model" json:"model"`
	MinPrice float64 `query:"min_price" json:"min_price"`
	MaxPrice float64 `query:"max_price" json:"max_price"`
	Sort     string  `query:"sort" json:"sort"`
	Page     int     `query:"page" json:"page"`
}

func (q ListingSearchQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Length(0, 100)),
		validation.Field(&q.MinPrice, validation.Min(float64(0))),
		validation.Field(&q.MaxPrice, validation.Min(float64(0))),
		validation.Field(&q.Sort, validation.In(
			string(domain.ListingSortNewest),
			string(domain.ListingSortPriceAsc),
			string(domain.ListingSortPriceDesc),
		)),
		validation.Field(&q.Page, validation.Min(0)),
	)
}

// Search converts the query into a repository filter.
func (q ListingSearchQuery) Search() repository.ListingSearch {
	return repository.ListingSearch{
		Query:     q.Query,
		Brand:     q.Brand,
		Model:     q.Model,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Sort:      domain.ListingSort(q.Sort),
		PageQuery: repository.PageQuery{Page: q.Page},
	}
}
